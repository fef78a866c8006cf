package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Store a résumé",
	Long: `Extract text from a résumé file, split it into chunks, embed them and
store the result. Supported formats are plain text, Markdown, HTML, DOCX and
PDF. Use "-" to read plain text from stdin, or --text to pass it inline.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

var (
	ingestTitle    string
	ingestText     string
	ingestMIMEType string
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "", "Résumé title (defaults to the file name)")
	ingestCmd.Flags().StringVar(&ingestText, "text", "", "Résumé text to ingest instead of a file")
	ingestCmd.Flags().StringVar(&ingestMIMEType, "mime-type", "", "Override the detected content type")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := commandContext(cmd)

	var (
		result *driving.IngestResult
		err    error
	)
	switch {
	case ingestText != "":
		result, err = ingestService.Ingest(ctx, driving.IngestRequest{
			Text:     ingestText,
			Title:    ingestTitle,
			MIMEType: "text/plain",
		})

	case len(args) == 1 && args[0] == "-":
		data, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("failed to read stdin: %w", readErr)
		}
		result, err = ingestService.Ingest(ctx, driving.IngestRequest{
			Text:     string(data),
			Title:    ingestTitle,
			URI:      "stdin",
			MIMEType: "text/plain",
		})

	case len(args) == 1:
		result, err = ingestFile(cmd, args[0])

	default:
		return errors.New("provide a file, \"-\" for stdin, or --text")
	}
	if err != nil {
		return fmt.Errorf("failed to ingest résumé: %w", err)
	}

	if jsonFlag {
		return printJSON(cmd, result)
	}

	cmd.Printf("Ingested résumé %s\n", result.DocumentID)
	cmd.Printf("  Words:  %d\n", result.WordCount)
	cmd.Printf("  Chunks: %d\n", result.ChunkCount)
	return nil
}

func ingestFile(cmd *cobra.Command, path string) (*driving.IngestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	mimeType := ingestMIMEType
	if mimeType == "" {
		mimeType = domain.MIMETypeForPath(path)
	}
	if mimeType == "" {
		mimeType = "text/plain"
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return ingestService.IngestFile(commandContext(cmd), &domain.RawDocument{
		URI:      abs,
		Title:    ingestTitle,
		MIMEType: mimeType,
		Content:  data,
	})
}
