// ABOUTME: Login, logout and whoami commands
// ABOUTME: Manages the saved session used by every authenticated command

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/session"
)

var (
	loginUsername      string
	loginPasswordStdin bool
)

// Terminal seams, replaced in tests
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and save the session",
	Long: `Sign in with your email and password. The session token is saved in the
config directory and used by every other command until 'imo-dms logout'.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runLogin(ctx, os.Stdin, os.Stdout)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if exitCode := runLogout(os.Stdout); exitCode != exitOK {
			os.Exit(exitCode)
		}
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runWhoami(ctx, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Email address")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")
}

// runLogin prompts for missing credentials, signs in and saves the session
func runLogin(ctx context.Context, in io.Reader, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}

	reader := bufio.NewReader(in)
	username := strings.TrimSpace(loginUsername)
	if username == "" {
		fmt.Fprint(w, "Email: ")
		username, err = readLine(reader)
		if err != nil {
			fmt.Fprintf(w, "Error: reading email: %v\n", err)
			return exitInvalid
		}
	}

	password, err := promptPassword(reader, w)
	if err != nil {
		fmt.Fprintf(w, "Error: reading password: %v\n", err)
		return exitInvalid
	}

	if username == "" || password == "" {
		fmt.Fprintln(w, "Error: email and password are required")
		return exitInvalid
	}

	c := e.client()
	tok, err := c.SignIn(ctx, username, password)
	if err != nil {
		return reportError(w, err)
	}

	if err := e.sessions.Save(&session.Session{Token: tok.AccessToken, UserName: username}); err != nil {
		fmt.Fprintf(w, "Error: saving session: %v\n", err)
		return exitError
	}

	name := username
	if user, err := c.WithToken(tok.AccessToken).Me(ctx); err != nil {
		e.log.Warn("fetching profile failed", "error", err)
	} else if dn := user.DisplayName(); dn != "" {
		name = dn
	}

	fmt.Fprintf(w, "Signed in as %s\n", name)
	return exitOK
}

func promptPassword(reader *bufio.Reader, w io.Writer) (string, error) {
	if !loginPasswordStdin && isTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(w, "Password: ")
		b, err := readPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return readLine(reader)
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// runLogout clears the saved session
func runLogout(w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}
	if err := e.sessions.Clear(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	fmt.Fprintln(w, "Signed out")
	return exitOK
}

// runWhoami prints the profile of the signed-in user
func runWhoami(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}
	c, s, err := e.authedClient()
	if err != nil {
		return reportError(w, err)
	}

	user, err := c.Me(ctx)
	if err != nil {
		return reportError(w, err)
	}

	exp, hasExp := s.ExpiresAt()
	if IsJSONOutput() {
		out := map[string]any{
			"id":        user.ID,
			"email":     user.Email,
			"username":  user.Username,
			"full_name": user.FullName,
			"backend":   e.cfg.APIURL,
		}
		if hasExp {
			out["expires_at"] = exp.UTC().Format(time.RFC3339)
		}
		return writeJSON(w, out)
	}

	fmt.Fprintf(w, "Name:     %s\n", user.DisplayName())
	fmt.Fprintf(w, "Email:    %s\n", user.Email)
	fmt.Fprintf(w, "Backend:  %s\n", e.cfg.APIURL)
	if hasExp {
		fmt.Fprintf(w, "Expires:  %s\n", exp.Local().Format("Jan 2, 2006 15:04"))
	}
	return exitOK
}
