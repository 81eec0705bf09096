package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/markode-co/MarkodeAITool/config"
	"github.com/markode-co/MarkodeAITool/internal/codegen"
	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
)

var (
	genPrompt    string
	genFramework string
	genLanguage  string
	genOut       string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a project from a prompt and write it to disk",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genPrompt, "prompt", "", "Description of the application to build")
	generateCmd.Flags().StringVar(&genFramework, "framework", "", "Framework hint, e.g. react")
	generateCmd.Flags().StringVar(&genLanguage, "language", "", "Language hint, e.g. typescript")
	generateCmd.Flags().StringVar(&genOut, "out", "out", "Directory the files are written to")
	_ = generateCmd.MarkFlagRequired("prompt")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if err := domain.ValidatePrompt(genPrompt); err != nil {
		return err
	}

	llmCfg, err := config.LoadLLM()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	backend, err := codegen.NewBackendFromConfig(ctx, *llmCfg)
	if err != nil {
		return err
	}
	client := codegen.NewClient(backend, codegen.Options{Timeout: llmCfg.Timeout})

	art, err := client.Generate(ctx, genPrompt, genFramework, genLanguage)
	if err != nil {
		return err
	}
	if art.IsEmpty() {
		return codegen.ErrEmptyResult
	}

	written, err := writeTree(genOut, art.Files)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %d file(s) to %s (%s/%s)\n", len(written), genOut, art.Framework, art.Language)
	for _, p := range written {
		fmt.Fprintf(out, " - %s\n", p)
	}
	if art.DeploymentInstructions != "" {
		fmt.Fprintf(out, "\n%s\n", art.DeploymentInstructions)
	}
	return nil
}

// writeTree writes files under dir and returns the relative paths written, sorted.
// Paths that would escape dir are rejected before anything is written.
func writeTree(dir string, files map[string]string) ([]string, error) {
	paths := make([]string, 0, len(files))
	for p := range files {
		if err := domain.ValidateFilename(p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	if len(paths) == 0 {
		return nil, errors.New("no files to write")
	}
	sort.Strings(paths)

	for _, p := range paths {
		target := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("create dir for %s: %w", p, err)
		}
		if err := os.WriteFile(target, []byte(files[p]), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", p, err)
		}
	}
	return paths, nil
}
