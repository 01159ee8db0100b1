package ui

import (
	"fmt"
	"strconv"

	"github.com/redmonkez12/taskboard/internal/auth"
	"github.com/redmonkez12/taskboard/internal/task"
)

// PrintTasks prints tasks one per line, oldest first.
func PrintTasks(tasks []task.TaskResponse) {
	if len(tasks) == 0 {
		fmt.Println(subtleStyle.Render("No tasks yet. Add one with `taskctl tasks add`."))
		return
	}

	fmt.Println(titleStyle.Render("Tasks"))
	for _, t := range tasks {
		fmt.Printf("%s%s\n", idStyle.Render(strconv.FormatInt(t.ID, 10)), t.Title)
		if t.Description != "" {
			fmt.Printf("%s%s\n", idStyle.Render(""), subtleStyle.Render(t.Description))
		}
	}
	fmt.Println()
}

// PrintTask prints a single task.
func PrintTask(t *task.TaskResponse) {
	fmt.Printf("%s%s\n", idStyle.Render(strconv.FormatInt(t.ID, 10)), t.Title)
	if t.Description != "" {
		fmt.Printf("%s%s\n", idStyle.Render(""), subtleStyle.Render(t.Description))
	}
	fmt.Printf("%s%s\n", idStyle.Render(""), subtleStyle.Render("created "+t.CreatedAt.Local().Format("2006-01-02 15:04")))
}

// PrintProfile prints the logged-in user.
func PrintProfile(p *auth.ProfileResponse) {
	fmt.Println(titleStyle.Render("Profile"))
	fmt.Printf("  ID:    %d\n", p.ID)
	fmt.Printf("  Email: %s\n", p.Email)
	fmt.Println()
}

// PrintSuccess prints a success message.
func PrintSuccess(msg string) {
	fmt.Println(successStyle.Render(msg))
}

// PrintError prints an error message.
func PrintError(msg string) {
	fmt.Println(errorStyle.Render("Error: " + msg))
}
