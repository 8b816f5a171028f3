package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schwepps/skills-store/pkg/skill"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <path>",
	Short: "Parse a local SKILL.md and print its metadata as JSON",
	Long: `Parse a SKILL.md file on disk and print the extracted metadata as JSON.
Useful for checking how a skill will appear in the catalog before
publishing it. The path may be the file itself or a folder containing it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			path = filepath.Join(path, "SKILL.md")
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		meta := skill.ParseFrontmatter(string(content))
		if meta == nil {
			return fmt.Errorf("%s has no usable frontmatter (a name or description is required)", path)
		}

		out, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}
