package main

import (
	"fmt"

	"github.com/schwepps/skills-store/pkg/presenter"
	"github.com/schwepps/skills-store/pkg/skill"
	"github.com/schwepps/skills-store/pkg/store"
	"github.com/schwepps/skills-store/pkg/validate"
	"github.com/spf13/cobra"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Manage registered skill repositories",
	Long:  `Commands for listing and registering the GitHub repositories the catalog syncs from.`,
}

var reposListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered repositories",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		repos, err := st.ListRepositories(ctx)
		if err != nil {
			return err
		}

		if len(repos) == 0 {
			presenter.Info("No repositories registered. Use 'skills-store repos add' or 'skills-store repos seed'.")
			return nil
		}

		presenter.Section("Registered Repositories")
		for _, rec := range repos {
			status := rec.SyncStatus
			if rec.LastSyncedAt != nil {
				status = fmt.Sprintf("%s (last synced %s)", status, rec.LastSyncedAt.Format("2006-01-02 15:04"))
			}
			presenter.Info(fmt.Sprintf("%s/%s [%s] %s", rec.Owner, rec.Repo, rec.Branch, status))
			if rec.SyncError != "" {
				presenter.Warning("  " + rec.SyncError)
			}
		}

		return nil
	},
}

var reposAddCmd = &cobra.Command{
	Use:   "add <github-url>",
	Short: "Validate and register a repository",
	Long: `Validate a GitHub repository (it must exist, be public, and contain at
least one folder with a parseable SKILL.md) and register it for syncing.
Pass --skip-validation to register without checking.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		branch, _ := cmd.Flags().GetString("branch")
		displayName, _ := cmd.Flags().GetString("display-name")
		skillsPath, _ := cmd.Flags().GetString("skills-path")
		defaultCategory, _ := cmd.Flags().GetString("default-category")
		excludeFolders, _ := cmd.Flags().GetStringSlice("exclude")
		featured, _ := cmd.Flags().GetBool("featured")
		skipValidation, _ := cmd.Flags().GetBool("skip-validation")

		owner, repo, err := validate.ParseGitHubURL(args[0])
		if err != nil {
			return err
		}

		if !skipValidation {
			validator := validate.NewValidator(newGitHubClient(ctx))
			result, err := validator.ValidateRepository(ctx, args[0], skillsPath)
			if err != nil {
				return err
			}
			printValidationResult(result)
			if !result.Valid {
				return fmt.Errorf("repository %s/%s failed validation", owner, repo)
			}
		}

		st, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		cfg := skill.RepoConfig{
			Owner:       owner,
			Repo:        repo,
			Branch:      branch,
			DisplayName: displayName,
			Featured:    featured,
			Options: skill.RepoOptions{
				SkillsPath:      skillsPath,
				DefaultCategory: defaultCategory,
				ExcludeFolders:  excludeFolders,
			},
		}

		if _, err := st.UpsertRepository(ctx, store.NewRepositoryRecord(cfg)); err != nil {
			return err
		}

		presenter.Success(fmt.Sprintf("Registered %s/%s. Run 'skills-store sync %s/%s' to import its skills.",
			owner, repo, owner, repo))
		return nil
	},
}

var reposSeedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Register repositories from a YAML seed file",
	Long: `Register every repository listed in a YAML seed file. Existing entries are
updated in place; nothing is removed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		configs, err := store.LoadSeedFile(args[0])
		if err != nil {
			return err
		}

		st, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		seeded, err := st.SeedRepositories(ctx, configs)
		if err != nil {
			return err
		}

		presenter.Success(fmt.Sprintf("Seeded %d repositories from %s", seeded, args[0]))
		return nil
	},
}

func init() {
	reposAddCmd.Flags().String("branch", "", "Branch to sync (defaults to the repository default)")
	reposAddCmd.Flags().String("display-name", "", "Display name for the repository")
	reposAddCmd.Flags().String("skills-path", "", "Subdirectory containing the skill folders")
	reposAddCmd.Flags().String("default-category", "", "Category applied to skills without one")
	reposAddCmd.Flags().StringSlice("exclude", nil, "Folder patterns to exclude from syncing")
	reposAddCmd.Flags().Bool("featured", false, "Mark the repository as featured")
	reposAddCmd.Flags().Bool("skip-validation", false, "Register without validating against GitHub")

	reposCmd.AddCommand(reposListCmd)
	reposCmd.AddCommand(reposAddCmd)
	reposCmd.AddCommand(reposSeedCmd)
}
