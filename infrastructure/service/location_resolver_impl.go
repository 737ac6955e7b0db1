package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/repository"
	"github.com/ca-srg/tzexplorer/domain/valueobject"
	"github.com/ca-srg/tzexplorer/infrastructure/config"
)

// Detection methods reported in TimezoneInfo
const (
	DetectionConfig    = "config"
	DetectionSystem    = "system"
	DetectionEnv       = "env"
	DetectionLocaltime = "localtime"
	DetectionTimezone  = "etc-timezone"
	DetectionFallback  = "fallback"
)

// systemProbe abstracts the process and filesystem lookups used for detection
type systemProbe struct {
	local    func() *time.Location
	getenv   func(string) string
	readlink func(string) (string, error)
	readFile func(string) ([]byte, error)
}

func defaultProbe() systemProbe {
	return systemProbe{
		local:    func() *time.Location { return time.Local },
		getenv:   os.Getenv,
		readlink: os.Readlink,
		readFile: os.ReadFile,
	}
}

// LocationResolverImpl implements repository.LocationResolver
type LocationResolverImpl struct {
	config *config.AppConfig
	logger domain.Logger
	probe  systemProbe

	cacheMu sync.RWMutex
	cache   map[string]*time.Location

	locationMu   sync.RWMutex
	userLocation *time.Location
	method       string
	detectErr    error
	detectionMu  sync.Mutex
	detected     bool
}

// NewLocationResolver creates a resolver that detects the local zone on first use
func NewLocationResolver(cfg *config.AppConfig, logger domain.Logger) *LocationResolverImpl {
	return newLocationResolverWithProbe(cfg, logger, defaultProbe())
}

func newLocationResolverWithProbe(cfg *config.AppConfig, logger domain.Logger, probe systemProbe) *LocationResolverImpl {
	return &LocationResolverImpl{
		config: cfg,
		logger: logger,
		probe:  probe,
		cache:  make(map[string]*time.Location),
	}
}

// Load returns the location for an IANA identifier
func (r *LocationResolverImpl) Load(timezoneID string) (*time.Location, error) {
	id := strings.TrimSpace(timezoneID)
	if id == "" {
		return nil, domain.ErrTimezone("Load", "empty timezone identifier")
	}
	// LoadLocation treats "Local" as the process zone, which is not an IANA identifier
	if id == "Local" {
		return nil, domain.ErrTimezoneParse(id, fmt.Errorf("not an IANA identifier"))
	}

	r.cacheMu.RLock()
	loc, ok := r.cache[id]
	r.cacheMu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, domain.ErrTimezoneParse(id, err)
	}

	r.cacheMu.Lock()
	r.cache[id] = loc
	r.cacheMu.Unlock()
	return loc, nil
}

// Local returns the user's timezone, detecting it once
func (r *LocationResolverImpl) Local() (*time.Location, error) {
	r.locationMu.RLock()
	if r.detected {
		loc, err := r.userLocation, r.detectErr
		r.locationMu.RUnlock()
		return loc, err
	}
	r.locationMu.RUnlock()

	return r.detectSystemTimezone()
}

// LocalInfo returns the user's timezone details at the given instant
func (r *LocationResolverImpl) LocalInfo(at time.Time) repository.TimezoneInfo {
	loc, err := r.Local()
	if err != nil {
		return repository.TimezoneInfo{
			Name:            "UTC",
			Offset:          valueobject.FormatOffsetSeconds(0),
			OffsetSeconds:   0,
			IsDST:           false,
			DetectionMethod: DetectionFallback,
		}
	}

	local := at.In(loc)
	_, offset := local.Zone()

	r.locationMu.RLock()
	method := r.method
	r.locationMu.RUnlock()

	return repository.TimezoneInfo{
		Name:            loc.String(),
		Offset:          valueobject.FormatOffsetSeconds(offset),
		OffsetSeconds:   offset,
		IsDST:           local.IsDST(),
		DetectionMethod: method,
	}
}

// detectSystemTimezone runs the detection chain and caches the outcome
func (r *LocationResolverImpl) detectSystemTimezone() (*time.Location, error) {
	r.detectionMu.Lock()
	defer r.detectionMu.Unlock()

	r.locationMu.RLock()
	if r.detected {
		loc, err := r.userLocation, r.detectErr
		r.locationMu.RUnlock()
		return loc, err
	}
	r.locationMu.RUnlock()

	ctx := context.Background()

	// Method 1: explicit configuration
	if r.config != nil && r.config.Explorer != nil && r.config.Explorer.LocalTimezone != "" {
		name := r.config.Explorer.LocalTimezone
		if loc, err := r.Load(name); err == nil {
			r.logger.Debug(ctx, "Using configured local timezone", domain.NewField("timezone", name))
			return r.setUserLocation(loc, DetectionConfig, nil), nil
		}
		r.logger.Warn(ctx, "Configured local timezone could not be loaded",
			domain.NewField("timezone", name))
	}

	// Method 2: time.Local when it carries an IANA name
	if loc := r.probe.local(); loc != nil && loc.String() != "Local" && loc.String() != "" {
		r.logger.Debug(ctx, "Detected timezone using time.Local",
			domain.NewField("timezone", loc.String()))
		return r.setUserLocation(loc, DetectionSystem, nil), nil
	}

	// Method 3: TZ environment variable
	if tzEnv := strings.TrimPrefix(r.probe.getenv("TZ"), ":"); tzEnv != "" {
		loc, err := r.Load(tzEnv)
		if err == nil {
			r.logger.Debug(ctx, "Detected timezone from TZ environment variable",
				domain.NewField("timezone", loc.String()))
			return r.setUserLocation(loc, DetectionEnv, nil), nil
		}
		r.logger.Warn(ctx, "Failed to load timezone from TZ environment variable",
			domain.NewField("TZ", tzEnv),
			domain.NewField("error", err.Error()))
	}

	// Method 4: /etc/localtime symlink (e.g. /usr/share/zoneinfo/America/New_York)
	if linkPath, err := r.probe.readlink("/etc/localtime"); err == nil {
		if name := zoneFromPath(linkPath); name != "" {
			if loc, err := r.Load(name); err == nil {
				r.logger.Debug(ctx, "Detected timezone from /etc/localtime",
					domain.NewField("timezone", loc.String()))
				return r.setUserLocation(loc, DetectionLocaltime, nil), nil
			}
		}
	}

	// Method 5: /etc/timezone (Debian family)
	if data, err := r.probe.readFile("/etc/timezone"); err == nil {
		if name := strings.TrimSpace(string(data)); name != "" {
			if loc, err := r.Load(name); err == nil {
				r.logger.Debug(ctx, "Detected timezone from /etc/timezone",
					domain.NewField("timezone", loc.String()))
				return r.setUserLocation(loc, DetectionTimezone, nil), nil
			}
		}
	}

	r.logger.Warn(ctx, "Failed to detect system timezone, using UTC as fallback")
	detectErr := domain.ErrTimezoneDetection("UTC")
	return r.setUserLocation(time.UTC, DetectionFallback, detectErr), detectErr
}

// zoneFromPath extracts the IANA identifier following a zoneinfo directory
func zoneFromPath(path string) string {
	parts := strings.SplitN(path, "/zoneinfo/", 2)
	if len(parts) != 2 {
		return ""
	}
	return strings.TrimPrefix(parts[1], "posix/")
}

func (r *LocationResolverImpl) setUserLocation(loc *time.Location, method string, err error) *time.Location {
	r.locationMu.Lock()
	defer r.locationMu.Unlock()
	r.userLocation = loc
	r.method = method
	r.detectErr = err
	r.detected = true
	return loc
}
