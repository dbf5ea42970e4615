package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerProjectsResource(srv, svc)
	registerProjectTemplate(srv, svc)
	registerHistoryTemplate(srv, svc)
}

func registerProjectsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"anthem://projects",
		"Projects",
		mcp.WithResourceDescription("Open projects with their undo and redo depth."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		projects := svc.Projects()
		payload := map[string]any{
			"projects": projects,
			"count":    len(projects),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerProjectTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"anthem://projects/{id}",
		"Project Document",
		mcp.WithTemplateDescription("The song, patterns and notes of an open project."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id, err := templateID(request)
		if err != nil {
			return nil, err
		}
		p, err := svc.Project(id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{"project": p})
	})
}

func registerHistoryTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"anthem://projects/{id}/history",
		"Project History",
		mcp.WithTemplateDescription("The undo history of an open project."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id, err := templateID(request)
		if err != nil {
			return nil, err
		}
		entries, err := svc.History(id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"project": id,
			"history": entries,
		})
	})
}

func templateID(request mcp.ReadResourceRequest) (uint64, error) {
	raw := request.Params.Arguments["id"]
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case []string:
		if len(v) > 0 {
			s = v[0]
		}
	}
	if s == "" {
		return 0, fmt.Errorf("project id is required")
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid project id %q", s)
	}
	return id, nil
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
