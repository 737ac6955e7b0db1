package repository

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/repository"
	"github.com/ca-srg/tzexplorer/infrastructure/config"
)

// platformZoneinfoDirs are the system zoneinfo roots, in lookup order
var platformZoneinfoDirs = []string{
	"/usr/share/zoneinfo",
	"/usr/share/lib/zoneinfo",
	"/usr/lib/locale/TZ",
}

// builtinZones is served when neither the system database nor the Go archive is present
var builtinZones = []string{
	"Africa/Cairo", "Africa/Johannesburg", "Africa/Lagos", "Africa/Nairobi",
	"America/Anchorage", "America/Argentina/Buenos_Aires", "America/Bogota",
	"America/Chicago", "America/Denver", "America/Halifax", "America/Los_Angeles",
	"America/Mexico_City", "America/New_York", "America/Phoenix", "America/Santiago",
	"America/Sao_Paulo", "America/St_Johns", "America/Toronto", "America/Vancouver",
	"Asia/Bangkok", "Asia/Dhaka", "Asia/Dubai", "Asia/Hong_Kong", "Asia/Jakarta",
	"Asia/Jerusalem", "Asia/Karachi", "Asia/Kathmandu", "Asia/Kolkata", "Asia/Manila",
	"Asia/Seoul", "Asia/Shanghai", "Asia/Singapore", "Asia/Taipei", "Asia/Tehran",
	"Asia/Tokyo", "Atlantic/Azores", "Atlantic/Reykjavik", "Australia/Adelaide",
	"Australia/Brisbane", "Australia/Darwin", "Australia/Perth", "Australia/Sydney",
	"Europe/Amsterdam", "Europe/Athens", "Europe/Berlin", "Europe/Dublin",
	"Europe/Helsinki", "Europe/Istanbul", "Europe/Lisbon", "Europe/London",
	"Europe/Madrid", "Europe/Moscow", "Europe/Paris", "Europe/Rome", "Europe/Stockholm",
	"Europe/Zurich", "Pacific/Auckland", "Pacific/Chatham", "Pacific/Honolulu",
	"Pacific/Kiritimati", "UTC",
}

// tzifMagic starts every compiled zone file
var tzifMagic = []byte("TZif")

// ZoneinfoCatalogRepository lists IANA identifiers from the zoneinfo database
type ZoneinfoCatalogRepository struct {
	dirs     []string
	archives []string
	logger   domain.Logger

	mu    sync.Mutex
	ids   []string
	index map[string]struct{}
}

// NewZoneinfoCatalogRepository searches the configured roots first, then $ZONEINFO
// and the platform directories, then the Go distribution's zoneinfo.zip.
func NewZoneinfoCatalogRepository(cfg *config.AppConfig, logger domain.Logger) repository.TimezoneCatalogRepository {
	var dirs, archives []string
	if cfg != nil {
		dirs = append(dirs, cfg.ZoneinfoDirList()...)
	}

	if zi := os.Getenv("ZONEINFO"); zi != "" {
		if strings.HasSuffix(zi, ".zip") {
			archives = append(archives, zi)
		} else {
			dirs = append(dirs, zi)
		}
	}
	dirs = append(dirs, platformZoneinfoDirs...)

	archives = append(archives, goZoneinfoArchives(os.Getenv("GOROOT"), runtime.GOROOT())...)

	return newZoneinfoCatalog(dirs, archives, logger)
}

// goZoneinfoArchives returns the Go distribution's zoneinfo.zip for each
// distinct root. GOROOT is rarely exported, so the toolchain's own root is
// consulted as well.
func goZoneinfoArchives(roots ...string) []string {
	var archives []string
	seen := make(map[string]bool)
	for _, root := range roots {
		if root == "" || seen[root] {
			continue
		}
		seen[root] = true
		archives = append(archives, filepath.Join(root, "lib", "time", "zoneinfo.zip"))
	}
	return archives
}

func newZoneinfoCatalog(dirs, archives []string, logger domain.Logger) *ZoneinfoCatalogRepository {
	return &ZoneinfoCatalogRepository{
		dirs:     dirs,
		archives: archives,
		logger:   logger,
	}
}

// List implements repository.TimezoneCatalogRepository
func (r *ZoneinfoCatalogRepository) List() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ids == nil {
		r.load()
	}

	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out, nil
}

// Contains implements repository.TimezoneCatalogRepository
func (r *ZoneinfoCatalogRepository) Contains(timezoneID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ids == nil {
		r.load()
	}

	_, ok := r.index[timezoneID]
	return ok, nil
}

// load fills the cache; callers hold mu
func (r *ZoneinfoCatalogRepository) load() {
	ctx := context.Background()
	seen := make(map[string]struct{})
	source := "zoneinfo"

	for _, dir := range r.dirs {
		n := r.walkDir(dir, seen)
		if n > 0 {
			r.logger.Debug(ctx, "Read zoneinfo directory",
				domain.NewField("dir", dir),
				domain.NewField("zones", n))
		}
	}

	if len(seen) == 0 {
		source = "archive"
		for _, archive := range r.archives {
			n, err := readZipArchive(archive, seen)
			if err != nil {
				r.logger.Debug(ctx, "Skipping zoneinfo archive",
					domain.NewField("path", archive),
					domain.NewField("error", err.Error()))
				continue
			}
			if n > 0 {
				break
			}
		}
	}

	if len(seen) == 0 {
		source = "builtin"
		for _, id := range builtinZones {
			seen[id] = struct{}{}
		}
		r.logger.Warn(ctx, "No zoneinfo database found, using built-in zone list",
			domain.NewField("zones", len(builtinZones)))
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	r.ids = ids
	r.index = seen
	r.logger.Info(ctx, "Timezone catalog loaded",
		domain.NewField("source", source),
		domain.NewField("zones", len(ids)))
}

// walkDir adds every zone file under root and returns how many were new
func (r *ZoneinfoCatalogRepository) walkDir(root string, seen map[string]struct{}) int {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return 0
	}

	added := 0
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped rather than aborting the walk
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		id := filepath.ToSlash(rel)

		if d.IsDir() {
			if !isZoneDir(id) {
				return fs.SkipDir
			}
			return nil
		}

		if !isZoneName(id) || !isTZifFile(path) {
			return nil
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			added++
		}
		return nil
	})
	return added
}

// readZipArchive adds the entries of a zoneinfo.zip
func readZipArchive(path string, seen map[string]struct{}) (int, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = zr.Close()
	}()

	added := 0
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isZoneName(f.Name) {
			continue
		}
		if _, ok := seen[f.Name]; !ok {
			seen[f.Name] = struct{}{}
			added++
		}
	}
	return added, nil
}

// isZoneDir rejects the posix/ and right/ mirrors and non-region directories
func isZoneDir(rel string) bool {
	top := strings.SplitN(rel, "/", 2)[0]
	if top == "posix" || top == "right" {
		return false
	}
	return startsUpper(top)
}

// isZoneName accepts capitalized identifiers without extensions, e.g. "America/New_York"
func isZoneName(rel string) bool {
	parts := strings.Split(rel, "/")
	if !startsUpper(parts[0]) {
		return false
	}
	last := parts[len(parts)-1]
	return last != "" && !strings.ContainsAny(last, ".")
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func isTZifFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() {
		_ = f.Close()
	}()

	head := make([]byte, len(tzifMagic))
	if _, err := io.ReadFull(f, head); err != nil {
		return false
	}
	return bytes.Equal(head, tzifMagic)
}
