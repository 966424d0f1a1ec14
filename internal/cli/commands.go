package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"maverick/dispatch/internal/auth"
	"maverick/dispatch/internal/config"
	"maverick/dispatch/internal/constants"
	"maverick/dispatch/internal/db"
	"maverick/dispatch/internal/models/dtos"
)

const operatorName = "dispatchctl"

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the dispatch tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			gdb, err := db.InitORM(cfg.DB)
			if err != nil {
				return err
			}
			if err := db.Migrate(gdb); err != nil {
				return err
			}
			fmt.Printf("%s schema migrated (%s)\n", color.New(color.FgGreen).Sprint("✓"), cfg.DB.Driver)
			return nil
		},
	}
}

// IngestCmd returns the ingest command
func IngestCmd() *cobra.Command {
	var (
		file     string
		tenantID string
		global   bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest one environment capture from a JSON file",
		Long: `Reads a capture in the same shape as POST /api/v1/environment/snapshots:
{"airport_code": "KPAO", "captured_at": "...", "metar": {...}, "taf": {...}, "notams": [...], "traffic": {...}}

--global stores the capture with no tenant so every tenant can see it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read capture: %w", err)
			}
			var req dtos.EnvironmentCaptureRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("failed to parse capture: %w", err)
			}
			if global {
				req.Global = true
			}
			if !req.Global && tenantID == "" {
				return fmt.Errorf("--tenant is required unless --global is set")
			}

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.stop()

			role := constants.RoleTenantAdmin
			if req.Global {
				role = constants.RoleSuperAdmin
			}
			claims := &auth.ServiceClaims{Name: operatorName, TenantUUID: tenantOrSystem(tenantID), RoleValue: role}

			snapshot, err := s.deps.Services.Environment.Ingest(context.Background(), &req, claims)
			if err != nil {
				return err
			}
			printSnapshot(snapshot)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the capture JSON")
	cmd.Flags().StringVar(&tenantID, "tenant", "", "owning tenant")
	cmd.Flags().BoolVar(&global, "global", false, "store as a global capture")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// AnnotateCmd returns the annotate command
func AnnotateCmd() *cobra.Command {
	var (
		tenantID string
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "annotate <sortie-id>",
		Short: "Recompute the dispatch annotation for a sortie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.stop()

			claims := &auth.ServiceClaims{Name: operatorName, TenantUUID: tenantID, RoleValue: constants.RoleOperationsManager}
			annotation, err := s.deps.Services.Dispatch.Annotate(context.Background(), args[0], notes, claims)
			if err != nil {
				return err
			}

			fmt.Printf("Sortie %s: %s\n", annotation.SortieID, riskLabel(annotation.RiskLevel))
			if annotation.SnapshotID != nil {
				fmt.Printf("  snapshot: %s\n", *annotation.SnapshotID)
			} else {
				fmt.Println("  snapshot: (none at or before report time)")
			}
			printFlags(annotation.Flags)
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant owning the sortie")
	cmd.Flags().StringVar(&notes, "notes", "", "assessor notes")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

// LatestCmd returns the latest command
func LatestCmd() *cobra.Command {
	var (
		airport  string
		at       string
		tenantID string
	)

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the latest capture at or before a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			when := time.Now().UTC()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				when = parsed
			}

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.stop()

			var tenant *string
			if tenantID != "" {
				tenant = &tenantID
			}
			snapshot, err := s.deps.Services.Environment.LatestAtOrBefore(context.Background(), airport, when, tenant)
			if err != nil {
				return err
			}
			if snapshot == nil {
				fmt.Printf("No capture for %s at or before %s\n", airport, when.Format(time.RFC3339))
				return nil
			}
			printSnapshot(snapshot)
			return nil
		},
	}

	cmd.Flags().StringVar(&airport, "airport", "", "ICAO code")
	cmd.Flags().StringVar(&at, "at", "", "RFC3339 time (default now)")
	cmd.Flags().StringVar(&tenantID, "tenant", "", "include this tenant's captures (default: global only)")
	_ = cmd.MarkFlagRequired("airport")

	return cmd
}

// TokenCmd returns the token command
func TokenCmd() *cobra.Command {
	var (
		userID    string
		tenantID  string
		role      string
		studentID string
		ttl       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed bearer token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			parsedRole, err := constants.ParseRole(role)
			if err != nil {
				return err
			}

			token, err := auth.NewTokenService([]byte(cfg.JWTSecret)).Issue(userID, tenantID, parsedRole, studentID, ttl)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "subject user id")
	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant id")
	cmd.Flags().StringVar(&role, "role", string(constants.RoleInstructor), "role")
	cmd.Flags().StringVar(&studentID, "student", "", "student profile id (student role)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

// tenantOrSystem gives global ingests a non-empty tenant on the acting claims
func tenantOrSystem(tenantID string) string {
	if tenantID == "" {
		return "system"
	}
	return tenantID
}
