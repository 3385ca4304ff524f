package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tieubaoca/doc2cal/types"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "OCR a document and print the text",
	Long:  `Runs the text extractor on an image, PDF or DOCX without calling the model`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath, _ := cmd.Flags().GetString("file")
		pagesFlag, _ := cmd.Flags().GetString("pages")

		doc, pages, err := documentFromFlags(filePath, pagesFlag)
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("--file is required")
		}

		a, err := newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		text := a.extractor.Extract(cmd.Context(), doc, pages)
		fmt.Fprintln(cmd.OutOrStdout(), text.Flatten())
		return nil
	},
}

// documentFromFlags validates the --file and --pages flags. A nil document
// means no file was given.
func documentFromFlags(filePath, pagesFlag string) (*types.UploadedDocument, types.PageSelection, error) {
	pages, err := types.ParsePageSelection(pagesFlag)
	if err != nil {
		return nil, nil, err
	}
	if filePath == "" {
		return nil, pages, nil
	}
	kind, ok := types.KindFromFilename(filePath)
	if !ok {
		return nil, nil, fmt.Errorf("unsupported file type: %s", filePath)
	}
	return &types.UploadedDocument{Path: filePath, Filename: filePath, Kind: kind}, pages, nil
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("file", "f", "", "Path to an image, PDF or DOCX file")
	extractCmd.Flags().StringP("pages", "p", "", "Comma separated pages to read (at most 2)")
}
