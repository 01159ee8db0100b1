package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// Credentials holds the email and password entered by the user.
type Credentials struct {
	Email    string
	Password string
}

// RunCredentialsForm asks for whichever of email and password is still empty.
func RunCredentialsForm(title string, creds *Credentials) error {
	var fields []huh.Field

	if creds.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&creds.Email).
			Validate(required("email is required")))
	}
	if creds.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&creds.Password).
			Validate(required("password is required")))
	}
	if len(fields) == 0 {
		return nil
	}

	fmt.Println(titleStyle.Render(title))
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCatppuccin()).Run()
}

// TaskFields holds the editable fields of a task.
type TaskFields struct {
	Title       string
	Description string
}

// RunTaskForm shows the task editor pre-filled with fields.
func RunTaskForm(heading string, fields *TaskFields) error {
	fmt.Println(titleStyle.Render(heading))

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fields.Title).
				Validate(required("title is required")),

			huh.NewText().
				Title("Description").
				Description("Optional").
				Value(&fields.Description),
		),
	).WithTheme(huh.ThemeCatppuccin()).Run()
}

// Confirm asks a yes/no question and defaults to no.
func Confirm(question string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

func required(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}
