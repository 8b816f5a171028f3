package main

import (
	"fmt"
	"strings"

	"github.com/schwepps/skills-store/pkg/presenter"
	"github.com/schwepps/skills-store/pkg/store"
	"github.com/schwepps/skills-store/pkg/sync"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync [owner/repo]",
	Short: "Sync skills from registered GitHub repositories",
	Long: `Fetch SKILL.md files from registered repositories, extract their metadata,
and update the local catalog. With no arguments every registered repository
is synced; pass owner/repo to sync a single one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		workers, _ := cmd.Flags().GetInt("workers")
		service := sync.NewService(st, newGitHubClient(ctx), sync.WithWorkers(workers))

		if len(args) == 1 {
			owner, repo, ok := strings.Cut(args[0], "/")
			if !ok || owner == "" || repo == "" {
				return fmt.Errorf("expected owner/repo, got %q", args[0])
			}

			result, err := service.SyncOne(ctx, owner, repo)
			if err != nil {
				return err
			}
			printSyncResult(result)
			if result.Status != store.StatusSuccess {
				return fmt.Errorf("sync of %s/%s failed", owner, repo)
			}
			return nil
		}

		report, err := service.SyncAll(ctx)
		if report != nil {
			printSyncReport(report)
		}
		return err
	},
}

func init() {
	syncCmd.Flags().Int("workers", 0, "Number of repositories to sync concurrently")
}

func printSyncResult(result sync.Result) {
	if result.Status == store.StatusSuccess {
		presenter.Success(fmt.Sprintf("%s/%s: %d added/updated, %d removed (%dms)",
			result.Owner, result.Repo, result.SkillsAdded, result.SkillsRemoved, result.DurationMs))
		return
	}
	presenter.Warning(fmt.Sprintf("%s/%s: %s", result.Owner, result.Repo, result.Error))
}

func printSyncReport(report *sync.Report) {
	presenter.Section("Sync Report")
	for _, result := range report.Results {
		printSyncResult(result)
	}
	presenter.Separator()
	presenter.Info(fmt.Sprintf("%d/%d repositories synced, %d skills processed in %dms",
		report.Summary.SuccessfulRepos, report.Summary.TotalRepos,
		report.Summary.TotalSkillsProcessed, report.TotalDurationMs))
}
