package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driving"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor [resume-id]",
	Short: "Write bullets tailored to a job description",
	Long: `Retrieve the résumé chunks most relevant to a job description and ask the
configured LLM for bullet points. Each bullet cites the chunks it is based on;
bullets without a valid citation are discarded.

The job description is read from --jd, from --jd-file, or from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runTailor,
}

var previewCmd = &cobra.Command{
	Use:   "preview [resume-id]",
	Short: "Show the chunks most relevant to a job description",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

var (
	tailorJD         string
	tailorJDFile     string
	tailorMaxBullets int
	tailorStyle      string
	tailorLimit      int
	tailorShowChunks bool
)

func init() {
	for _, c := range []*cobra.Command{tailorCmd, previewCmd} {
		c.Flags().StringVar(&tailorJD, "jd", "", "Job description text")
		c.Flags().StringVar(&tailorJDFile, "jd-file", "", "File containing the job description")
		c.Flags().IntVarP(&tailorLimit, "limit", "k", 0, "Number of chunks to retrieve (default from settings)")
	}
	tailorCmd.Flags().IntVarP(&tailorMaxBullets, "bullets", "n", 0, "Maximum number of bullets (1-20)")
	tailorCmd.Flags().StringVarP(&tailorStyle, "style", "s", "", "Bullet style: professional, concise or impact")
	tailorCmd.Flags().BoolVar(&tailorShowChunks, "show-chunks", false, "Print the cited chunks after the bullets")

	rootCmd.AddCommand(tailorCmd)
	rootCmd.AddCommand(previewCmd)
}

func runTailor(cmd *cobra.Command, args []string) error {
	if tailorService == nil {
		return errors.New("tailor service not configured")
	}

	jd, err := readJobDescription(cmd)
	if err != nil {
		return err
	}

	style := domain.Style(strings.ToLower(tailorStyle))
	if style != "" && !style.IsValid() {
		return fmt.Errorf("unknown style %q (use professional, concise or impact)", tailorStyle)
	}

	result, err := tailorService.Tailor(commandContext(cmd), driving.TailorRequest{
		DocumentID:     args[0],
		JobDescription: jd,
		MaxBullets:     tailorMaxBullets,
		Style:          style,
		RetrievalLimit: tailorLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to tailor résumé: %w", err)
	}

	if jsonFlag {
		return printJSON(cmd, result)
	}

	if len(result.Bullets) == 0 {
		cmd.Println("No grounded bullets were generated.")
		return nil
	}

	for _, b := range result.Bullets {
		cmd.Printf("• %s %s\n", b.Text, formatCitations(b.Citations))
	}

	if tailorShowChunks {
		cmd.Println()
		cmd.Println("Sources:")
		cited := make(map[int]bool, len(result.CitedChunks))
		for _, p := range result.CitedChunks {
			cited[p] = true
		}
		for _, sc := range result.Retrieved {
			if cited[sc.Chunk.Position] {
				cmd.Printf("  [%d] %s\n", sc.Chunk.Position, preview(sc.Chunk.Content, 120))
			}
		}
	}

	s := result.Stats
	if s.DroppedCitations > 0 || s.Ungrounded > 0 || s.Duplicates > 0 {
		cmd.Printf("\n(%d bullets kept; %d invalid citations, %d duplicates, %d ungrounded removed)\n",
			s.Kept, s.DroppedCitations, s.Duplicates, s.Ungrounded)
	}
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	if tailorService == nil {
		return errors.New("tailor service not configured")
	}

	jd, err := readJobDescription(cmd)
	if err != nil {
		return err
	}

	result, err := tailorService.Preview(commandContext(cmd), args[0], jd, tailorLimit)
	if err != nil {
		return fmt.Errorf("failed to preview chunks: %w", err)
	}

	if jsonFlag {
		return printJSON(cmd, result)
	}

	if len(result.Chunks) == 0 {
		cmd.Println("No chunks matched.")
		return nil
	}

	for i, sc := range result.Chunks {
		cmd.Printf("%2d. [%d] score %.3f\n", i+1, sc.Chunk.Position, sc.Score)
		cmd.Printf("    %s\n", preview(sc.Chunk.Content, 200))
	}
	return nil
}

// readJobDescription takes the job description from --jd, --jd-file or stdin.
func readJobDescription(cmd *cobra.Command) (string, error) {
	if tailorJD != "" {
		return tailorJD, nil
	}
	if tailorJDFile != "" {
		data, err := os.ReadFile(tailorJDFile)
		if err != nil {
			return "", fmt.Errorf("failed to read job description: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New("job description is required (use --jd, --jd-file or stdin)")
	}
	return string(data), nil
}

func formatCitations(positions []int) string {
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// preview collapses whitespace and truncates s to n runes.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
