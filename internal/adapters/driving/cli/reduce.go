package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/reducer/pca"
	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/storage/exportfile"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driving"
	"github.com/custodia-labs/rag-migrate/internal/core/services"
)

var reduceCmd = &cobra.Command{
	Use:   "reduce",
	Short: "Reduce vector dimensions with PCA",
	Long: `Projects every vector of the vectors export onto its first principal
components so the collection fits a backend with a smaller maximum width.

Files are written in this order:
  1. the untouched original collection to the backup path
  2. the reduced collection to the reduced path
  3. the reduced collection over the vectors export

Step 3 is skipped with --no-overwrite or reduce.overwrite_source = false, and
is confirmed interactively on a terminal unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: runReduce,
}

func init() {
	reduceCmd.Flags().StringP("input", "i", "", "vectors export to reduce (default paths.vectors_export)")
	reduceCmd.Flags().String("reduced", "", "reduced output path (default paths.reduced_vectors)")
	reduceCmd.Flags().String("backup", "", "backup path for the original (default paths.vectors_backup)")
	reduceCmd.Flags().IntP("target", "t", 0,
		fmt.Sprintf("target dimension (default reduce.target_dimension, %d)", driving.DefaultTargetDimension))
	reduceCmd.Flags().BoolP("yes", "y", false, "overwrite the input without asking")
	reduceCmd.Flags().Bool("no-overwrite", false, "leave the input untouched")

	rootCmd.AddCommand(reduceCmd)
}

func runReduce(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	noOverwrite, _ := cmd.Flags().GetBool("no-overwrite")
	yes, _ := cmd.Flags().GetBool("yes")

	req := driving.ReduceRequest{
		InputPath:       stringFlag(cmd, "input", cfg.Paths.VectorsExport),
		ReducedPath:     stringFlag(cmd, "reduced", cfg.Paths.ReducedVectors),
		BackupPath:      stringFlag(cmd, "backup", cfg.Paths.VectorsBackup),
		TargetDimension: intFlag(cmd, "target", cfg.Reduce.TargetDimension),
		OverwriteSource: cfg.Reduce.OverwriteSource && !noOverwrite,
	}
	if req.OverwriteSource && !yes && stdinIsTerminal() {
		req.Confirm = func() bool {
			return confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
				fmt.Sprintf("Replace %s with the reduced vectors?", req.InputPath))
		}
	}

	svc := services.NewDimensionReduceService(pca.New(), exportfile.NewStore())

	report, err := svc.Reduce(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("reduce dimensions: %w", err)
	}

	overwritten := "no"
	if report.Overwritten {
		overwritten = "yes"
	}
	cmd.Print(summary("Dimensions reduced",
		"Run", report.RunID,
		"Method", report.Method,
		"Vectors", strconv.Itoa(report.Vectors),
		"Dimensions", fmt.Sprintf("%d -> %d", report.OriginalDimension, report.TargetDimension),
		"Explained variance", fmt.Sprintf("%.2f%%", report.ExplainedVariance*100),
		"Backup", report.BackupPath,
		"Reduced", successStyle.Render(report.ReducedPath),
		"Input replaced", overwritten,
	))
	if report.Components < report.TargetDimension {
		cmd.Println(warningStyle.Render(fmt.Sprintf(
			"Only %d components could be fitted; the remaining coordinates are zero.", report.Components)))
	}
	return nil
}
