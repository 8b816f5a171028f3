package main

import (
	"fmt"

	"github.com/schwepps/skills-store/pkg/presenter"
	"github.com/schwepps/skills-store/pkg/validate"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <github-url>",
	Short: "Check whether a repository is suitable for the catalog",
	Long: `Run the registration checks against a GitHub repository without
registering it: the URL must parse, the repository must exist and be
public, and at least one folder must contain a parseable SKILL.md.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		skillsPath, _ := cmd.Flags().GetString("skills-path")

		validator := validate.NewValidator(newGitHubClient(ctx))
		result, err := validator.ValidateRepository(ctx, args[0], skillsPath)
		if err != nil {
			return err
		}

		printValidationResult(result)
		if !result.Valid {
			return fmt.Errorf("repository failed validation")
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().String("skills-path", "", "Subdirectory containing the skill folders")
}

func printValidationResult(result *validate.Result) {
	presenter.Section("Validation")
	for _, step := range result.Steps {
		line := string(step.Step)
		if step.Message != "" {
			line += ": " + step.Message
		}
		if step.Passed {
			presenter.Success(line)
		} else {
			presenter.Warning(line)
		}
	}
	if result.Valid {
		presenter.Separator()
		presenter.Success(fmt.Sprintf("%d valid skills found: %v", result.SkillCount, result.SkillNames))
	}
}
