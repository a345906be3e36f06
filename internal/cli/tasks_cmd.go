package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/stefanorainone/sales-management/internal/cli/formatter"
	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/repository"
	"github.com/stefanorainone/sales-management/internal/service"
	"github.com/stefanorainone/sales-management/internal/storage"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and complete seller tasks",
	}
	cmd.AddCommand(newTasksListCmd(app), newTasksCompleteCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var userID, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a seller's tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var statuses []domain.TaskStatus
			for _, s := range strings.Split(status, ",") {
				if s = strings.TrimSpace(s); s != "" {
					statuses = append(statuses, domain.TaskStatus(s))
				}
			}
			tasks, err := app.Services.Admin.List(cmd.Context(), repository.TaskFilter{UserID: userID, Statuses: statuses})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(tasks))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "seller id")
	cmd.Flags().StringVar(&status, "status", "", "comma-separated statuses")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newTasksCompleteCmd(app *App) *cobra.Command {
	var req service.CompleteTaskRequest
	var outcome string
	var files []string

	cmd := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Complete a task with notes and attachments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.TaskID = args[0]
			req.Outcome = domain.TaskOutcome(outcome)

			res, err := completeWithFiles(cmd, app, req, files)
			if errors.Is(err, service.ErrUploadFailed) && !req.ProceedWithoutAttachments {
				ok, askErr := confirm(app, "Attachments could not be saved",
					"Complete the task without them?\n"+err.Error())
				if askErr != nil {
					return askErr
				}
				if !ok {
					return err
				}
				req.ProceedWithoutAttachments = true
				res, err = completeWithFiles(cmd, app, req, files)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCompletion(res))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.UserID, "user", "", "seller id")
	f.StringVar(&outcome, "outcome", "success", "success, partial, failed, no_response or rescheduled")
	f.StringVar(&req.Notes, "notes", "", "what happened")
	f.StringVar(&req.Results, "results", "", "concrete results")
	f.IntVar(&req.ActualDuration, "minutes", 0, "time spent")
	f.StringSliceVar(&files, "file", nil, "attachment path (repeatable)")
	f.BoolVar(&req.ProceedWithoutAttachments, "proceed-without-attachments", false, "complete even if attachments fail to upload")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// completeWithFiles opens each attachment fresh so a retry re-reads them.
func completeWithFiles(cmd *cobra.Command, app *App, req service.CompleteTaskRequest, paths []string) (*service.CompletionResult, error) {
	for _, p := range paths {
		fh, err := app.Fs.Open(p)
		if err != nil {
			return nil, fmt.Errorf("opening attachment: %w", err)
		}
		defer fh.Close()
		req.Files = append(req.Files, storage.File{Name: filepath.Base(p), Content: fh})
	}
	return app.Services.Completion.Complete(cmd.Context(), req)
}

func confirm(app *App, title, description string) (bool, error) {
	if app.Confirm == nil {
		return false, nil
	}
	return app.Confirm(title, description)
}

// HuhConfirm asks on the terminal.
func HuhConfirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Complete anyway").
				Negative("Cancel").
				Value(&ok),
		),
	).Run()
	return ok, err
}
