package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"archive-lens/internal/annotation"
	"archive-lens/internal/locator"
)

var (
	deleteID string

	noteBlock string
	noteField string
	noteStart int
	noteEnd   int
	noteFile  string
	noteSheet string
	noteRow   int
	noteCol   int
	notePage  int
)

// annotationsCmd represents the annotations command
var annotationsCmd = &cobra.Command{
	Use:   "annotations <archive-id>",
	Short: "List the annotations of an archive",
	Long: `List prints every annotation of an archive with a description of
where it points.

Example:
  lensctl annotations A20240601
  lensctl annotations A20240601 --delete 3f1c...`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotations,
}

// annotateCmd represents the annotate command
var annotateCmd = &cobra.Command{
	Use:   "annotate <archive-id> <text>",
	Short: "Add an annotation to an archive",
	Long: `Annotate attaches a note to a paragraph or field of the primary
document, a spreadsheet row or cell, or a PDF page.

Example:
  lensctl annotate A20240601 "需要复核" --block b3 --start 0 --end 4
  lensctl annotate A20240601 "金额有误" --file f9 --sheet 明细 --row 12 --col 3
  lensctl annotate A20240601 "缺少签章" --file f2 --page 2`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotationsCmd)
	rootCmd.AddCommand(annotateCmd)

	annotationsCmd.Flags().StringVar(&deleteID, "delete", "", "delete the annotation with this id before listing")

	annotateCmd.Flags().StringVar(&noteBlock, "block", "", "primary document block id")
	annotateCmd.Flags().StringVar(&noteField, "field", "", "primary document field name")
	annotateCmd.Flags().IntVar(&noteStart, "start", -1, "start of the selected text")
	annotateCmd.Flags().IntVar(&noteEnd, "end", -1, "end of the selected text")
	annotateCmd.Flags().StringVar(&noteFile, "file", "", "attachment file id")
	annotateCmd.Flags().StringVar(&noteSheet, "sheet", "", "spreadsheet sheet name")
	annotateCmd.Flags().IntVar(&noteRow, "row", -1, "0-based spreadsheet row")
	annotateCmd.Flags().IntVar(&noteCol, "col", -1, "0-based spreadsheet column")
	annotateCmd.Flags().IntVar(&notePage, "page", 0, "PDF page (1-based)")
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runAnnotations(cmd *cobra.Command, args []string) error {
	store, db, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	ctx := commandContext(cmd)
	composer := annotation.NewComposer(store, args[0])
	if deleteID != "" {
		if err := composer.Delete(ctx, deleteID); err != nil {
			return err
		}
	} else if err := composer.Refresh(ctx); err != nil {
		return err
	}
	printAnnotations(cmd.OutOrStdout(), args[0], composer.Annotations())
	return nil
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	loc, target, err := draftFromFlags(args[0])
	if err != nil {
		return err
	}

	store, db, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	composer := annotation.NewComposer(store, args[0])
	composer.SetDraft(loc, target)
	composer.SetText(strings.Join(args[1:], " "))
	fmt.Fprintf(cmd.ErrOrStderr(), "Annotating %s\n", composer.Hint())

	if err := composer.Submit(commandContext(cmd)); err != nil {
		return err
	}
	printAnnotations(cmd.OutOrStdout(), args[0], composer.Annotations())
	return nil
}

func optional(v int) *int {
	if v < 0 {
		return nil
	}
	return locator.Int(v)
}

// draftFromFlags builds the locator the annotate flags describe. Without
// --file the note targets the primary document.
func draftFromFlags(archiveID string) (locator.Locator, locator.Target, error) {
	switch {
	case noteFile == "":
		loc := locator.PrimaryDoc{BlockID: noteBlock}
		if noteField != "" {
			loc = locator.PrimaryDoc{FieldName: noteField, FieldStart: optional(noteStart), FieldEnd: optional(noteEnd)}
		} else {
			loc.Start, loc.End = optional(noteStart), optional(noteEnd)
		}
		return loc, locator.Target{Kind: locator.KindPrimaryDoc, Ref: archiveID, BlockID: noteBlock, FieldName: noteField}, nil
	case notePage > 0:
		return locator.PDF{Page: locator.Int(notePage)}, locator.Target{Kind: locator.KindPDF, Ref: noteFile}, nil
	case noteRow >= 0:
		loc := locator.Spreadsheet{SheetName: noteSheet, Row: locator.Int(noteRow), Col: optional(noteCol)}
		return loc, locator.Target{Kind: locator.KindSpreadsheet, Ref: noteFile}, nil
	}
	return nil, locator.Target{}, fmt.Errorf("--file needs --page or --row")
}

func printAnnotations(w io.Writer, archiveID string, annotations []locator.Annotation) {
	if len(annotations) == 0 {
		fmt.Fprintf(w, "No annotations for %s\n", archiveID)
		return
	}
	for _, a := range annotations {
		fmt.Fprintf(w, "%s  %s  %s\n    %s\n", a.ID, a.CreatedAt.Format("2006-01-02 15:04"), a.Label(), a.Content)
	}
}
