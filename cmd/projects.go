// ABOUTME: Projects commands: list, recent, create and documents
// ABOUTME: Create goes through the creation workflow like the interactive modal

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/client"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/workflow"
)

var (
	projectsRecentLimit int
	projectName         string
	projectDescription  string
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Browse and create projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runProjectsList(ctx, os.Stdout)
		})
	},
}

var projectsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently created projects",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runProjectsRecent(ctx, os.Stdout)
		})
	},
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runProjectsCreate(ctx, os.Stdout)
		})
	},
}

var projectsDocumentsCmd = &cobra.Command{
	Use:   "documents <project-id>",
	Short: "List the documents of a project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runProjectDocuments(ctx, os.Stdout, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsListCmd, projectsRecentCmd, projectsCreateCmd, projectsDocumentsCmd)

	projectsRecentCmd.Flags().IntVar(&projectsRecentLimit, "limit", 0, "Number of projects (default from config)")
	projectsCreateCmd.Flags().StringVar(&projectName, "name", "", "Project name (required)")
	projectsCreateCmd.Flags().StringVar(&projectDescription, "description", "", "Project description")
}

// runProjectsList prints every project
func runProjectsList(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}

	// Listing projects works without a session
	c := e.client()
	if authed, _, err := e.authedClient(); err == nil {
		c = authed
	}

	projects, err := c.ListProjects(ctx)
	if err != nil {
		return reportError(w, err)
	}
	return printProjects(w, projects)
}

// runProjectsRecent prints the most recent projects
func runProjectsRecent(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}
	limit := projectsRecentLimit
	if limit <= 0 {
		limit = e.cfg.RecentLimit
	}

	c, _, err := e.authedClient()
	if err != nil {
		return reportError(w, err)
	}
	projects, err := c.RecentProjects(ctx, limit)
	if err != nil {
		return reportError(w, err)
	}
	return printProjects(w, projects)
}

// runProjectsCreate creates a project through the creation workflow
func runProjectsCreate(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}
	c, _, err := e.authedClient()
	if err != nil {
		return reportError(w, err)
	}

	ctrl := workflow.New(c, cliNotifier(w), workflow.WithLogger(e.log))
	if err := ctrl.Choose(workflow.KindNewProject); err != nil {
		return reportError(w, err)
	}
	if err := ctrl.EditProject(func(f *workflow.ProjectForm) {
		f.Name = projectName
		f.Description = projectDescription
	}); err != nil {
		return submitExitCode(w, err)
	}

	project, err := ctrl.SubmitNewProject(ctx)
	if err != nil {
		return submitExitCode(w, err)
	}

	if IsJSONOutput() {
		return writeJSON(w, project)
	}
	fmt.Fprintf(w, "ID:           %s\n", project.ID)
	fmt.Fprintf(w, "Name:         %s\n", project.ProjectName)
	return exitOK
}

// runProjectDocuments prints the documents of one project
func runProjectDocuments(ctx context.Context, w io.Writer, projectID string) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}

	docs, err := e.client().ProjectDocuments(ctx, projectID)
	if err != nil {
		return reportError(w, err)
	}
	if len(docs) == 0 && !IsJSONOutput() {
		fmt.Fprintln(w, "No documents found for this project.")
		return exitOK
	}
	return printDocuments(w, docs)
}

func printProjects(w io.Writer, projects []client.Project) int {
	if projects == nil {
		projects = []client.Project{}
	}
	if IsJSONOutput() {
		return writeJSON(w, projects)
	}
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects found.")
		return exitOK
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCREATED\tDESCRIPTION")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.ProjectName, p.CreatedAt.Short(), truncate(p.Description, 40))
	}
	tw.Flush()
	return exitOK
}
