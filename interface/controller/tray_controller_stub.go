//go:build !darwin
// +build !darwin

package controller

import (
	"context"
	"runtime"
	"time"

	"github.com/ca-srg/tzexplorer/domain"
	usecase "github.com/ca-srg/tzexplorer/usecase/interface"
)

// TrayController is only available on macOS
type TrayController struct{}

// NewTrayController returns a controller whose Run always fails
func NewTrayController(
	_ usecase.ExplorerService,
	_ usecase.PreferenceService,
	_ usecase.MetricsService,
	_ int,
	_ time.Duration,
	_ domain.Logger,
) *TrayController {
	return &TrayController{}
}

// Run reports that the menu-bar clock is unsupported
func (t *TrayController) Run(ctx context.Context) error {
	return domain.ErrUnsupportedPlatform("tray", runtime.GOOS)
}
