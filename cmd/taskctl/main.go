package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/taskboard/cmd/taskctl/ui"
	"github.com/redmonkez12/taskboard/internal/client"
	"github.com/redmonkez12/taskboard/internal/task"
)

const defaultServer = "http://localhost:3003"

// app carries the resolved flags shared by every command.
type app struct {
	server    string
	tokenFile string
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "taskctl",
		Short:         "Manage your taskboard tasks from the terminal",
		Long:          "Command-line client for the taskboard API. Log in once; the session token is kept in your config directory.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.server, "server", envOr("TASKBOARD_URL", defaultServer), "API base URL")
	rootCmd.PersistentFlags().StringVar(&a.tokenFile, "token-file", "", "Where the session token is stored (default: user config dir)")

	signupCmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE:  a.runSignup,
	}
	signupCmd.Flags().String("email", "", "Account email")
	signupCmd.Flags().String("password", "", "Account password")

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to an existing account",
		RunE:  a.runLogin,
	}
	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session token",
		RunE:  a.runLogout,
	}

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the logged-in user",
		RunE:  a.runProfile,
	}

	// tasks command group
	tasksCmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"t"},
		Short:   "List and edit your tasks",
		RunE:    a.runList,
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your tasks",
		RunE:    a.runList,
	}

	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runAdd,
	}
	addCmd.Flags().StringP("description", "d", "", "Task description")

	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's title or description",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runEdit,
	}
	editCmd.Flags().StringP("title", "t", "", "New title")
	editCmd.Flags().StringP("description", "d", "", "New description (pass \"\" to clear)")

	rmCmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE:    a.runRemove,
	}
	rmCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	tasksCmd.AddCommand(listCmd, addCmd, editCmd, rmCmd)
	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, profileCmd, tasksCmd)

	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(describe(err))
		os.Exit(1)
	}
}

func (a *app) tokenStore() (*client.TokenStore, error) {
	if a.tokenFile != "" {
		return client.NewTokenStore(a.tokenFile), nil
	}
	path, err := client.DefaultTokenPath()
	if err != nil {
		return nil, err
	}
	return client.NewTokenStore(path), nil
}

// session returns a client carrying the saved token.
func (a *app) session() (*client.Client, error) {
	store, err := a.tokenStore()
	if err != nil {
		return nil, err
	}
	token, err := store.Load()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, client.ErrNotLoggedIn
	}

	c := client.New(a.server)
	c.SetToken(token)
	return c, nil
}

func (a *app) runSignup(cmd *cobra.Command, args []string) error {
	return a.authenticate(cmd, "Create your account", func(c *client.Client, creds ui.Credentials) (string, error) {
		return c.Signup(cmd.Context(), creds.Email, creds.Password)
	}, "Account created. You are logged in.")
}

func (a *app) runLogin(cmd *cobra.Command, args []string) error {
	return a.authenticate(cmd, "Log in", func(c *client.Client, creds ui.Credentials) (string, error) {
		return c.Login(cmd.Context(), creds.Email, creds.Password)
	}, "Logged in.")
}

func (a *app) authenticate(cmd *cobra.Command, heading string, call func(*client.Client, ui.Credentials) (string, error), done string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	creds := ui.Credentials{Email: email, Password: password}
	if err := ui.RunCredentialsForm(heading, &creds); err != nil {
		return fmt.Errorf("form cancelled: %w", err)
	}

	token, err := call(client.New(a.server), creds)
	if err != nil {
		return err
	}

	store, err := a.tokenStore()
	if err != nil {
		return err
	}
	if err := store.Save(token); err != nil {
		return err
	}

	ui.PrintSuccess(done)
	return nil
}

func (a *app) runLogout(cmd *cobra.Command, args []string) error {
	store, err := a.tokenStore()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	ui.PrintSuccess("Logged out.")
	return nil
}

func (a *app) runProfile(cmd *cobra.Command, args []string) error {
	c, err := a.session()
	if err != nil {
		return err
	}

	profile, err := c.Profile(cmd.Context())
	if err != nil {
		return err
	}

	ui.PrintProfile(profile)
	return nil
}

func (a *app) runList(cmd *cobra.Command, args []string) error {
	c, err := a.session()
	if err != nil {
		return err
	}

	tasks, err := c.ListTasks(cmd.Context())
	if err != nil {
		return err
	}

	ui.PrintTasks(tasks)
	return nil
}

func (a *app) runAdd(cmd *cobra.Command, args []string) error {
	c, err := a.session()
	if err != nil {
		return err
	}

	description, _ := cmd.Flags().GetString("description")
	fields := ui.TaskFields{Description: description}
	if len(args) == 1 {
		fields.Title = args[0]
	} else if err := ui.RunTaskForm("New task", &fields); err != nil {
		return fmt.Errorf("form cancelled: %w", err)
	}

	created, err := c.CreateTask(cmd.Context(), fields.Title, fields.Description)
	if err != nil {
		return err
	}

	ui.PrintSuccess("Task added.")
	ui.PrintTask(created)
	return nil
}

func (a *app) runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c, err := a.session()
	if err != nil {
		return err
	}

	var title, description *string
	if cmd.Flags().Changed("title") {
		v, _ := cmd.Flags().GetString("title")
		title = &v
	}
	if cmd.Flags().Changed("description") {
		v, _ := cmd.Flags().GetString("description")
		description = &v
	}

	// No flags: edit interactively, starting from the current values.
	if title == nil && description == nil {
		current, err := findTask(cmd.Context(), c, id)
		if err != nil {
			return err
		}
		fields := ui.TaskFields{Title: current.Title, Description: current.Description}
		if err := ui.RunTaskForm(fmt.Sprintf("Edit task %d", id), &fields); err != nil {
			return fmt.Errorf("form cancelled: %w", err)
		}
		title, description = &fields.Title, &fields.Description
	}

	updated, err := c.UpdateTask(cmd.Context(), id, title, description)
	if err != nil {
		return err
	}

	ui.PrintSuccess("Task updated.")
	ui.PrintTask(updated)
	return nil
}

func (a *app) runRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c, err := a.session()
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		ok, err := ui.Confirm(fmt.Sprintf("Delete task %d?", id))
		if err != nil {
			return fmt.Errorf("prompt cancelled: %w", err)
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := c.DeleteTask(cmd.Context(), id); err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Task %d deleted.", id))
	return nil
}

func findTask(ctx context.Context, c *client.Client, id int64) (*task.TaskResponse, error) {
	tasks, err := c.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, &client.APIError{Status: http.StatusNotFound, Message: "task not found"}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

// describe turns client errors into short, actionable messages.
func describe(err error) string {
	if errors.Is(err, client.ErrNotLoggedIn) {
		return "not logged in; run `taskctl login` first"
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden {
		return "session expired or invalid; run `taskctl login` again"
	}
	return err.Error()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
