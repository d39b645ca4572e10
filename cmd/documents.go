// ABOUTME: Documents commands: list, recent, upload, reply, delete and files
// ABOUTME: Upload and reply go through the creation workflow like the interactive modal

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cobra"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/client"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/filepick"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/workflow"
)

var (
	documentsRecentLimit int
	docTitle             string
	docProject           string
	docReference         string
	docType              string
	docDescription       string
	replyTitle           string
	deleteYes            bool
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Browse, upload and reply to documents",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runDocumentsList(ctx, os.Stdout)
		})
	},
}

var documentsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently uploaded documents",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runDocumentsRecent(ctx, os.Stdout)
		})
	},
}

var documentsUploadCmd = &cobra.Command{
	Use:   "upload FILE...",
	Short: "Upload a document with one or more files",
	Long: `Upload a document to a project. --project accepts a project id or name.

Example:
  imo-dms documents upload --title "Invoice Q1" --project Roads invoice.pdf`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runDocumentsUpload(ctx, os.Stdout, args)
		})
	},
}

var documentsReplyCmd = &cobra.Command{
	Use:   "reply <document-id> FILE...",
	Short: "Reply to a document with one or more files",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runDocumentsReply(ctx, os.Stdout, args[0], args[1:])
		})
	},
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete <document-id>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runDocumentsDelete(ctx, os.Stdin, os.Stdout, args[0])
		})
	},
}

var documentsFilesCmd = &cobra.Command{
	Use:   "files <document-id>",
	Short: "List the files attached to a document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runDocumentFiles(ctx, os.Stdout, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(documentsCmd)
	documentsCmd.AddCommand(documentsListCmd, documentsRecentCmd, documentsUploadCmd,
		documentsReplyCmd, documentsDeleteCmd, documentsFilesCmd)

	documentsRecentCmd.Flags().IntVar(&documentsRecentLimit, "limit", 0, "Number of documents (default from config)")

	documentsUploadCmd.Flags().StringVar(&docTitle, "title", "", "Document title (required)")
	documentsUploadCmd.Flags().StringVar(&docProject, "project", "", "Project id or name (required)")
	documentsUploadCmd.Flags().StringVar(&docReference, "reference", "", "Reference number")
	documentsUploadCmd.Flags().StringVar(&docType, "type", "", "Document type")
	documentsUploadCmd.Flags().StringVar(&docDescription, "description", "", "Description")

	documentsReplyCmd.Flags().StringVar(&replyTitle, "title", "", "Reply title (required)")

	documentsDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}

// runDocumentsList prints every document
func runDocumentsList(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}
	c, _, err := e.authedClient()
	if err != nil {
		return reportError(w, err)
	}
	docs, err := c.ListDocuments(ctx)
	if err != nil {
		return reportError(w, err)
	}
	return printDocuments(w, docs)
}

// runDocumentsRecent prints the most recent documents
func runDocumentsRecent(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}
	limit := documentsRecentLimit
	if limit <= 0 {
		limit = e.cfg.RecentLimit
	}

	c, _, err := e.authedClient()
	if err != nil {
		return reportError(w, err)
	}
	docs, err := c.RecentDocuments(ctx, limit)
	if err != nil {
		return reportError(w, err)
	}
	return printDocuments(w, docs)
}

// runDocumentsUpload uploads a document through the creation workflow
func runDocumentsUpload(ctx context.Context, w io.Writer, paths []string) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}
	files, err := filepick.FromPaths(paths...)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}
	if strings.TrimSpace(docProject) == "" {
		fmt.Fprintln(w, "Error: --project is required")
		return exitInvalid
	}
	c, _, err := e.authedClient()
	if err != nil {
		return reportError(w, err)
	}

	ctrl := workflow.New(c, cliNotifier(w), workflow.WithLogger(e.log))
	if err := ctrl.Choose(workflow.KindUploadDocument); err != nil {
		return reportError(w, err)
	}
	if err := ctrl.OpenProjectPicker(ctx); err != nil {
		return reportError(w, err)
	}
	if !ctrl.ProjectsLoaded() {
		// the notifier already printed the fetch failure
		return exitError
	}
	project, ok := findProject(ctrl.Projects(), docProject)
	if !ok {
		fmt.Fprintf(w, "Error: unknown project %q\n", docProject)
		return exitInvalid
	}
	if err := ctrl.SelectProject(project); err != nil {
		return submitExitCode(w, err)
	}
	if err := ctrl.EditDocument(func(f *workflow.DocumentForm) {
		f.Title = docTitle
		f.ReferenceNumber = docReference
		f.DocumentType = docType
		f.Description = docDescription
	}); err != nil {
		return submitExitCode(w, err)
	}
	if err := ctrl.PickFiles(ctx, workflow.KindUploadDocument, staticFiles(files)); err != nil {
		return submitExitCode(w, err)
	}

	doc, err := ctrl.SubmitDocumentUpload(ctx)
	if err != nil {
		return submitExitCode(w, err)
	}
	rememberFiles(e, files)

	if IsJSONOutput() {
		return writeJSON(w, doc)
	}
	fmt.Fprintf(w, "ID:           %s\n", doc.ID)
	fmt.Fprintf(w, "Title:        %s\n", doc.Title)
	fmt.Fprintf(w, "Project:      %s\n", project.ProjectName)
	fmt.Fprintf(w, "Files:        %d\n", len(files))
	return exitOK
}

// runDocumentsReply posts a reply through the creation workflow
func runDocumentsReply(ctx context.Context, w io.Writer, documentID string, paths []string) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}
	files, err := filepick.FromPaths(paths...)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}
	c, _, err := e.authedClient()
	if err != nil {
		return reportError(w, err)
	}

	ctrl := workflow.New(c, cliNotifier(w), workflow.WithLogger(e.log))
	if err := ctrl.Choose(workflow.KindReplyDocument); err != nil {
		return reportError(w, err)
	}
	if err := ctrl.SelectDocument(client.Document{ID: documentID, Title: documentID}); err != nil {
		return submitExitCode(w, err)
	}
	if err := ctrl.EditReply(func(f *workflow.ReplyForm) { f.Title = replyTitle }); err != nil {
		return submitExitCode(w, err)
	}
	if err := ctrl.PickFiles(ctx, workflow.KindReplyDocument, staticFiles(files)); err != nil {
		return submitExitCode(w, err)
	}

	reply, err := ctrl.SubmitReply(ctx)
	if err != nil {
		return submitExitCode(w, err)
	}
	rememberFiles(e, files)

	if IsJSONOutput() {
		return writeJSON(w, reply)
	}
	fmt.Fprintf(w, "ID:           %s\n", reply.ID)
	fmt.Fprintf(w, "Document:     %s\n", documentID)
	fmt.Fprintf(w, "Files:        %d\n", len(files))
	return exitOK
}

// runDocumentsDelete deletes a document after confirmation
func runDocumentsDelete(ctx context.Context, in io.Reader, w io.Writer, documentID string) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}
	c, _, err := e.authedClient()
	if err != nil {
		return reportError(w, err)
	}

	if !deleteYes {
		fmt.Fprintf(w, "Are you sure you want to delete document %s? [y/N] ", documentID)
		answer, _ := readLine(bufio.NewReader(in))
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Fprintln(w, "Canceled")
			return exitOK
		}
	}

	if err := c.DeleteDocument(ctx, documentID); err != nil {
		fmt.Fprintln(w, "Failed to delete the document.")
		return reportError(w, err)
	}
	fmt.Fprintln(w, "Document deleted successfully.")
	return exitOK
}

// runDocumentFiles prints the files attached to a document
func runDocumentFiles(ctx context.Context, w io.Writer, documentID string) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}
	c, _, err := e.authedClient()
	if err != nil {
		return reportError(w, err)
	}

	docs, err := c.ListDocuments(ctx)
	if err != nil {
		return reportError(w, err)
	}
	var doc *client.Document
	for i := range docs {
		if docs[i].ID == documentID {
			doc = &docs[i]
			break
		}
	}
	if doc == nil {
		return reportError(w, fmt.Errorf("document %s: %w", documentID, client.ErrNotFound))
	}

	items := doc.FileItems
	if items == nil {
		items = []client.FileItem{}
	}
	if IsJSONOutput() {
		return writeJSON(w, items)
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "No files attached to this document.")
		return exitOK
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tSIZE\tURL")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", item.Name, item.Extension(), item.Size, item.URL)
	}
	tw.Flush()
	return exitOK
}

func printDocuments(w io.Writer, docs []client.Document) int {
	if docs == nil {
		docs = []client.Document{}
	}
	if IsJSONOutput() {
		return writeJSON(w, docs)
	}
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents found.")
		return exitOK
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tREFERENCE\tFILES\tCREATED")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			d.ID, truncate(d.Title, 25), d.DocumentType, d.ReferenceNumber, len(d.FileItems), d.CreatedAt.Short())
	}
	tw.Flush()
	return exitOK
}

// findProject matches by id first, then by case-insensitive name
func findProject(projects []client.Project, ref string) (client.Project, bool) {
	for _, p := range projects {
		if p.ID == ref {
			return p, true
		}
	}
	for _, p := range projects {
		if strings.EqualFold(p.ProjectName, ref) {
			return p, true
		}
	}
	return client.Project{}, false
}

// staticFiles hands already resolved files to the workflow
func staticFiles(files []client.File) workflow.FilePicker {
	return workflow.FilePickerFunc(func(context.Context) ([]client.File, error) {
		return files, nil
	})
}

func rememberFiles(e *env, files []client.File) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	if err := filepick.NewRecent(e.cfg.ConfigDir).Add(paths...); err != nil {
		e.log.Debug("saving recent attachments failed", "error", err)
	}
}

// notifyOut receives notifications while stdout carries JSON
var notifyOut io.Writer = os.Stderr

// cliNotifier prints workflow outcomes the way the modal would show them.
// With --json they go to notifyOut so stdout stays parseable.
func cliNotifier(w io.Writer) workflow.Notifier {
	if IsJSONOutput() {
		w = notifyOut
	}
	return workflow.NotifierFunc(func(n workflow.Notification) {
		if n.Level == workflow.LevelError && n.Err != nil {
			fmt.Fprintf(w, "%s: %s: %v\n", n.Level, n.Message, n.Err)
			return
		}
		fmt.Fprintf(w, "%s: %s\n", n.Level, n.Message)
	})
}

// submitExitCode maps a submit error to an exit code. Failures of the
// request itself were already printed by the notifier.
func submitExitCode(w io.Writer, err error) int {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		fmt.Fprintf(w, "Error: %v\n", verrs)
		return exitInvalid
	case errors.Is(err, workflow.ErrBusy), errors.Is(err, workflow.ErrWrongMode), errors.Is(err, workflow.ErrNoDocument):
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	default:
		return exitError
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
