package ops

import (
	"context"

	"github.com/hpungsan/jobdork/internal/app"
	"github.com/hpungsan/jobdork/internal/board"
	"github.com/hpungsan/jobdork/internal/errors"
	"github.com/hpungsan/jobdork/internal/kanban"
)

// AddJobInput contains parameters for the AddJob operation.
type AddJobInput struct {
	Role     string // required
	Company  string // required
	Status   string // default: saved
	Link     string
	Salary   string
	Location string
	Notes    string
}

// AddJobOutput contains the result of the AddJob operation.
type AddJobOutput struct {
	Job *board.Application `json:"job"`
}

// AddJob adds an application to the board.
func AddJob(ctx context.Context, sess *app.Session, input AddJobInput) (*AddJobOutput, error) {
	var status board.Status
	if input.Status != "" {
		s, err := board.ParseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		status = s
	}

	job, err := sess.Board.AddJob(ctx, board.NewApplication{
		Role:     input.Role,
		Company:  input.Company,
		Status:   status,
		Link:     input.Link,
		Salary:   input.Salary,
		Location: input.Location,
		Notes:    input.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &AddJobOutput{Job: job}, nil
}

// ListJobsInput contains parameters for the ListJobs operation.
type ListJobsInput struct {
	Status string // optional filter
	Limit  int
	Offset int
}

// ListJobsOutput contains the result of the ListJobs operation.
type ListJobsOutput struct {
	Items      []board.Application `json:"items"`
	Pagination Pagination          `json:"pagination"`
}

// ListJobs returns applications, most recently updated first.
func ListJobs(ctx context.Context, sess *app.Session, input ListJobsInput) (*ListJobsOutput, error) {
	var filter board.Status
	if input.Status != "" {
		s, err := board.ParseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		filter = s
	}

	var all []board.Application
	for _, col := range board.Columns(sess.Board.Applications()) {
		if filter != "" && col.Status != filter {
			continue
		}
		all = append(all, col.Applications...)
	}
	sortByUpdated(all)

	start, end, p := paginate(input.Limit, input.Offset, len(all))
	items := all[start:end]
	if items == nil {
		items = []board.Application{}
	}
	return &ListJobsOutput{Items: items, Pagination: p}, nil
}

// GetJob returns one application.
func GetJob(ctx context.Context, sess *app.Session, id string) (*board.Application, error) {
	job, ok := sess.Board.Get(id)
	if !ok {
		return nil, errors.NewNotFound("job", id)
	}
	return &job, nil
}

// BoardOutput contains the kanban columns.
type BoardOutput struct {
	Columns []board.Column `json:"columns"`
	Total   int            `json:"total"`
}

// Board returns the derived kanban columns.
func Board(ctx context.Context, sess *app.Session) (*BoardOutput, error) {
	apps := sess.Board.Applications()
	return &BoardOutput{Columns: board.Columns(apps), Total: len(apps)}, nil
}

// MoveJobInput contains parameters for the MoveJob operation.
type MoveJobInput struct {
	ID     string // required
	Status string // required target column
}

// MoveJob moves an application to a column, as a drag and drop would.
func MoveJob(ctx context.Context, sess *app.Session, input MoveJobInput) (*kanban.DropResult, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	status, err := board.ParseStatus(input.Status)
	if err != nil {
		return nil, err
	}
	res, err := sess.Kanban.Move(ctx, input.ID, status)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// EditNotesInput contains parameters for the EditNotes operation.
type EditNotesInput struct {
	ID    string  // required
	Notes *string // nil cancels the edit
}

// EditNotesOutput contains the result of the EditNotes operation.
type EditNotesOutput struct {
	Updated bool               `json:"updated"`
	Job     *board.Application `json:"job,omitempty"`
}

// EditNotes replaces an application's notes.
func EditNotes(ctx context.Context, sess *app.Session, input EditNotesInput) (*EditNotesOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	updated, err := sess.Board.EditJob(ctx, input.ID, input.Notes)
	if err != nil {
		return nil, err
	}
	out := &EditNotesOutput{Updated: updated}
	if job, ok := sess.Board.Get(input.ID); ok {
		out.Job = &job
	}
	return out, nil
}

// DeleteJob removes an application.
func DeleteJob(ctx context.Context, sess *app.Session, id string) (*DeleteOutput, error) {
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	deleted, err := sess.Board.DeleteJob(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DeleteOutput{Deleted: deleted, ID: id}, nil
}
