package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/anthem/pkg/app"
	"tableflip.dev/anthem/pkg/command"
	"tableflip.dev/anthem/pkg/model"
)

// noteArgs are the arguments shared by the note tools.
type noteArgs struct {
	Project   uint64 `json:"project"`
	Pattern   uint64 `json:"pattern"`
	Generator uint64 `json:"generator"`
	Note      uint64 `json:"note"`
	Key       uint8  `json:"key"`
	Velocity  *uint8 `json:"velocity"`
	Length    uint64 `json:"length"`
	Offset    uint64 `json:"offset"`
}

type projectArgs struct {
	Project uint64 `json:"project"`
	Path    string `json:"path"`
	Name    string `json:"name"`
	Pattern uint64 `json:"pattern"`
}

func registerTools(srv *server.MCPServer, svc *Service) {
	registerProjectTools(srv, svc)
	registerHistoryTools(srv, svc)
	registerPatternTools(srv, svc)
	registerNoteTools(srv, svc)
}

func projectOption() mcp.ToolOption {
	return mcp.WithNumber("project",
		mcp.Description("Project id. Defaults to the active project."),
	)
}

func registerProjectTools(srv *server.MCPServer, svc *Service) {
	srv.AddTool(mcp.NewTool(
		"new_project",
		mcp.WithDescription("Open a new empty project and make it active."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		replies, err := svc.Do(ctx, app.NewProject{})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		id := replies[0].ProjectID
		more, err := svc.Do(ctx, app.SetActiveProject{ProjectID: id})
		return result(append(replies, more...), err)
	})

	srv.AddTool(mcp.NewTool(
		"set_active_project",
		mcp.WithDescription("Select the project untargeted tools apply to."),
		mcp.WithNumber("project", mcp.Required(), mcp.Description("Project id.")),
	), projectTool(svc, func(id uint64, _ projectArgs) app.Msg {
		return app.SetActiveProject{ProjectID: id}
	}))

	srv.AddTool(mcp.NewTool(
		"close_project",
		mcp.WithDescription("Close a project and discard its undo history."),
		projectOption(),
	), projectTool(svc, func(id uint64, _ projectArgs) app.Msg {
		return app.CloseProject{ProjectID: id}
	}))

	srv.AddTool(mcp.NewTool(
		"save_project",
		mcp.WithDescription("Save a project to the library, or to path when given."),
		projectOption(),
		mcp.WithString("path", mcp.Description("Optional file path.")),
	), projectTool(svc, func(id uint64, args projectArgs) app.Msg {
		return app.SaveProject{ProjectID: id, Path: args.Path}
	}))

	srv.AddTool(mcp.NewTool(
		"load_project",
		mcp.WithDescription("Open a project from the library by id, or from a file path."),
		mcp.WithNumber("project", mcp.Description("Library project id.")),
		mcp.WithString("path", mcp.Description("File path to load instead of a library id.")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args projectArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Project == 0 && args.Path == "" {
			return mcp.NewToolResultError("project or path is required"), nil
		}
		return result(svc.Do(ctx, app.LoadProject{ProjectID: args.Project, Path: args.Path}))
	})

	srv.AddTool(mcp.NewTool(
		"list_projects",
		mcp.WithDescription("List open projects with their history depth."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projects := svc.Projects()
		return toJSONResult(map[string]any{
			"projects": projects,
			"count":    len(projects),
		})
	})

	srv.AddTool(mcp.NewTool(
		"get_project",
		mcp.WithDescription("Fetch the full document of an open project."),
		projectOption(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args projectArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		id, err := svc.ProjectID(args.Project)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		p, err := svc.Project(id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(p)
	})
}

func registerHistoryTools(srv *server.MCPServer, svc *Service) {
	for _, t := range []struct {
		name, desc string
		msg        func(uint64) app.Msg
	}{
		{"undo", "Undo the most recent edit.", func(id uint64) app.Msg { return app.Undo{ProjectID: id} }},
		{"redo", "Redo the most recently undone edit.", func(id uint64) app.Msg { return app.Redo{ProjectID: id} }},
		{"journal_start", "Start grouping the following edits into one undo step.", func(id uint64) app.Msg { return app.JournalStartEntry{ProjectID: id} }},
		{"journal_commit", "Commit the grouped edits as one undo step.", func(id uint64) app.Msg { return app.JournalCommitEntry{ProjectID: id} }},
	} {
		msg := t.msg
		srv.AddTool(mcp.NewTool(t.name, mcp.WithDescription(t.desc), projectOption()),
			projectTool(svc, func(id uint64, _ projectArgs) app.Msg { return msg(id) }))
	}

	srv.AddTool(mcp.NewTool(
		"get_history",
		mcp.WithDescription("List the undo history of a project."),
		projectOption(),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args projectArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		id, err := svc.ProjectID(args.Project)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		entries, err := svc.History(id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"project": id, "history": entries})
	})
}

func registerPatternTools(srv *server.MCPServer, svc *Service) {
	srv.AddTool(mcp.NewTool(
		"add_pattern",
		mcp.WithDescription("Append a new empty pattern to the song."),
		projectOption(),
		mcp.WithString("name", mcp.Required(), mcp.Description("Pattern name.")),
	), projectTool(svc, func(id uint64, args projectArgs) app.Msg {
		return app.AddPattern{ProjectID: id, Name: args.Name}
	}))

	srv.AddTool(mcp.NewTool(
		"delete_pattern",
		mcp.WithDescription("Delete a pattern from the song."),
		projectOption(),
		mcp.WithNumber("pattern", mcp.Required(), mcp.Description("Pattern id.")),
	), projectTool(svc, func(id uint64, args projectArgs) app.Msg {
		return app.DeletePattern{ProjectID: id, PatternID: args.Pattern}
	}))
}

func noteOptions(extra ...mcp.ToolOption) []mcp.ToolOption {
	opts := []mcp.ToolOption{
		projectOption(),
		mcp.WithNumber("pattern", mcp.Required(), mcp.Description("Pattern id.")),
		mcp.WithNumber("generator", mcp.Required(), mcp.Description("Generator (instrument) id.")),
	}
	return append(opts, extra...)
}

func registerNoteTools(srv *server.MCPServer, svc *Service) {
	srv.AddTool(mcp.NewTool("add_note", noteOptions(
		mcp.WithDescription("Add a note to a generator within a pattern."),
		mcp.WithNumber("key", mcp.Required(), mcp.Description("MIDI key, 0-127.")),
		mcp.WithNumber("velocity", mcp.Description("Velocity, 0-127. Defaults to 100.")),
		mcp.WithNumber("length", mcp.Description("Length in ticks. Defaults to 96.")),
		mcp.WithNumber("offset", mcp.Description("Start offset in ticks.")),
	)...), noteTool(svc, func(id uint64, a noteArgs) (app.Msg, error) {
		velocity := uint8(100)
		if a.Velocity != nil {
			velocity = *a.Velocity
		}
		length := a.Length
		if length == 0 {
			length = 96
		}
		return app.AddNote{ProjectID: id, PatternID: a.Pattern, GeneratorID: a.Generator,
			Note: model.Note{Key: a.Key, Velocity: velocity, Length: length, Offset: a.Offset}}, nil
	}))

	srv.AddTool(mcp.NewTool("delete_note", noteOptions(
		mcp.WithDescription("Delete a note."),
		mcp.WithNumber("note", mcp.Required(), mcp.Description("Note id.")),
	)...), noteTool(svc, func(id uint64, a noteArgs) (app.Msg, error) {
		return app.DeleteNote{ProjectID: id, PatternID: a.Pattern, GeneratorID: a.Generator, NoteID: a.Note}, nil
	}))

	srv.AddTool(mcp.NewTool("move_note", noteOptions(
		mcp.WithDescription("Move a note to a new key and offset."),
		mcp.WithNumber("note", mcp.Required(), mcp.Description("Note id.")),
		mcp.WithNumber("key", mcp.Required(), mcp.Description("New MIDI key.")),
		mcp.WithNumber("offset", mcp.Required(), mcp.Description("New offset in ticks.")),
	)...), noteTool(svc, func(id uint64, a noteArgs) (app.Msg, error) {
		return app.MoveNote{ProjectID: id, PatternID: a.Pattern, GeneratorID: a.Generator,
			NoteID: a.Note, Key: a.Key, Offset: a.Offset}, nil
	}))

	srv.AddTool(mcp.NewTool("resize_note", noteOptions(
		mcp.WithDescription("Change the length of a note."),
		mcp.WithNumber("note", mcp.Required(), mcp.Description("Note id.")),
		mcp.WithNumber("length", mcp.Required(), mcp.Description("New length in ticks.")),
	)...), noteTool(svc, func(id uint64, a noteArgs) (app.Msg, error) {
		if a.Length == 0 {
			return nil, fmt.Errorf("length must be positive")
		}
		return app.ResizeNote{ProjectID: id, PatternID: a.Pattern, GeneratorID: a.Generator,
			NoteID: a.Note, Length: a.Length}, nil
	}))
}

func projectTool(svc *Service, build func(uint64, projectArgs) app.Msg) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args projectArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		id, err := svc.ProjectID(args.Project)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return result(svc.Do(ctx, build(id, args)))
	}
}

func noteTool(svc *Service, build func(uint64, noteArgs) (app.Msg, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args noteArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		id, err := svc.ProjectID(args.Project)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		msg, err := build(id, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return result(svc.Do(ctx, msg))
	}
}

func result(replies []command.Reply, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(map[string]any{
		"replies": replies,
		"count":   len(replies),
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
