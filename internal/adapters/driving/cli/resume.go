package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:     "resume",
	Aliases: []string{"resumes"},
	Short:   "Manage stored résumés",
	Long:    `List, view, inspect, or delete stored résumés.`,
}

var resumeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored résumés",
	Args:  cobra.NoArgs,
	RunE:  runResumeList,
}

var resumeShowCmd = &cobra.Command{
	Use:   "show [resume-id]",
	Short: "Show a résumé and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumeShow,
}

var resumeStatsCmd = &cobra.Command{
	Use:   "stats [resume-id]",
	Short: "Show word and chunk counts",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumeStats,
}

var resumeDeleteCmd = &cobra.Command{
	Use:   "delete [resume-id]",
	Short: "Delete a résumé and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumeDelete,
}

func init() {
	resumeCmd.AddCommand(resumeListCmd)
	resumeCmd.AddCommand(resumeShowCmd)
	resumeCmd.AddCommand(resumeStatsCmd)
	resumeCmd.AddCommand(resumeDeleteCmd)
	rootCmd.AddCommand(resumeCmd)
}

func runResumeList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list résumés: %w", err)
	}

	if jsonFlag {
		return printJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No résumés stored. Add one with 'tailor ingest <file>'.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title:   %s\n", docs[i].Title)
		cmd.Printf("    Created: %s\n", docs[i].CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d résumés\n", len(docs))
	return nil
}

func runResumeShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := commandContext(cmd)
	docID := args[0]

	doc, err := documentService.Get(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get résumé: %w", err)
	}
	chunks, err := documentService.Chunks(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}

	if jsonFlag {
		return printJSON(cmd, struct {
			Document any `json:"document"`
			Chunks   any `json:"chunks"`
		}{doc, chunks})
	}

	cmd.Printf("Résumé: %s\n\n", doc.ID)
	cmd.Printf("  Title:    %s\n", doc.Title)
	if doc.URI != "" {
		cmd.Printf("  URI:      %s\n", doc.URI)
	}
	if doc.MIMEType != "" {
		cmd.Printf("  Type:     %s\n", doc.MIMEType)
	}
	cmd.Printf("  Created:  %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))

	cmd.Printf("\nChunks (%d):\n", len(chunks))
	for _, c := range chunks {
		cmd.Printf("\n  [%d] %s\n", c.Position, c.Content)
	}
	return nil
}

func runResumeStats(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	stats, err := documentService.Stats(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	if jsonFlag {
		return printJSON(cmd, stats)
	}

	cmd.Printf("Résumé: %s\n\n", stats.DocumentID)
	cmd.Printf("  Title:            %s\n", stats.Title)
	cmd.Printf("  Words:            %d\n", stats.WordCount)
	cmd.Printf("  Chunks:           %d\n", stats.ChunkCount)
	cmd.Printf("  Words per chunk:  %.1f\n", stats.AvgWordsPerChunk)
	return nil
}

func runResumeDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Delete(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete résumé: %w", err)
	}

	cmd.Printf("Deleted résumé: %s\n", args[0])
	return nil
}
