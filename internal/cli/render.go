package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"maverick/dispatch/internal/constants"
	"maverick/dispatch/internal/models/entities"
	gormModels "maverick/dispatch/internal/models/gorm"
)

func riskLabel(level constants.RiskLevel) string {
	switch level {
	case constants.RiskRed:
		return color.New(color.FgRed, color.Bold).Sprint(string(level))
	case constants.RiskAmber:
		return color.New(color.FgYellow, color.Bold).Sprint(string(level))
	case constants.RiskGreen:
		return color.New(color.FgGreen, color.Bold).Sprint(string(level))
	}
	return string(level)
}

func flagMark(set bool) string {
	if set {
		return color.New(color.FgRed).Sprint("yes")
	}
	return color.New(color.FgGreen).Sprint("no")
}

func printFlags(flags entities.DerivedFlags) {
	fmt.Printf("  below minima:     %s\n", flagMark(flags.BelowMinimaWeather))
	fmt.Printf("  strong crosswind: %s\n", flagMark(flags.StrongCrosswind))
	fmt.Printf("  runway closed:    %s\n", flagMark(flags.RunwayClosed))
	fmt.Printf("  high traffic:     %s\n", flagMark(flags.HighTraffic))
}

func printSnapshot(s *gormModels.EnvironmentSnapshot) {
	scope := "global"
	if s.TenantID != nil {
		scope = "tenant " + *s.TenantID
	}
	fmt.Printf("Snapshot %s\n", s.ID)
	fmt.Printf("  airport:  %s\n", s.AirportCode)
	fmt.Printf("  captured: %s\n", s.CapturedAt.UTC().Format(time.RFC3339))
	fmt.Printf("  scope:    %s\n", scope)
	printFlags(s.Flags)
}
