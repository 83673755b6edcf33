package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	scerrors "github.com/standardbeagle/stylecheck/internal/errors"
)

// createJSONResponse creates a standardized JSON response for MCP tools
func createJSONResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(content)},
		},
	}, nil
}

// createErrorResponse creates a standardized error response for MCP tools
func createErrorResponse(operation string, err error) (*mcp.CallToolResult, error) {
	return createSmartErrorResponse(operation, err, nil)
}

// createSmartErrorResponse adds suggestions and help to an error response.
// Tool errors are reported inside the result with IsError set, not as a
// protocol error, so the client model can see them and correct its call.
func createSmartErrorResponse(operation string, err error, context map[string]interface{}) (*mcp.CallToolResult, error) {
	errorData := map[string]interface{}{
		"success":   false,
		"error":     err.Error(),
		"operation": operation,
	}

	if suggestions := generateErrorSuggestions(err); len(suggestions) > 0 {
		errorData["suggestions"] = suggestions
	}
	if help := getOperationHelp(operation); help != "" {
		errorData["help"] = help
	}
	if len(context) > 0 {
		errorData["context"] = context
	}

	response, marshalErr := createJSONResponse(errorData)
	if marshalErr != nil {
		return nil, marshalErr
	}
	response.IsError = true
	return response, nil
}

// generateErrorSuggestions derives hints from the typed error.
func generateErrorSuggestions(err error) []string {
	var suggestions []string

	var ruleErr *scerrors.RuleError
	if errors.As(err, &ruleErr) && ruleErr.Suggestion != "" {
		suggestions = append(suggestions, fmt.Sprintf("did you mean %q?", ruleErr.Suggestion))
	}

	var fileErr *scerrors.FileError
	if errors.As(err, &fileErr) {
		switch fileErr.Type {
		case scerrors.ErrorTypeFileNotFound:
			suggestions = append(suggestions, "paths are resolved against the project root; check the spelling")
		case scerrors.ErrorTypePermission:
			suggestions = append(suggestions, "the server cannot read this path")
		}
	}

	if errors.Is(err, errOutsideRoot) {
		suggestions = append(suggestions, "only files below the project root can be linted; pass 'source' to lint a buffer")
	}
	return suggestions
}

func getOperationHelp(operation string) string {
	switch operation {
	case "lint":
		return `{"paths": ["Sources"]} lints files on disk; {"source": "...", "path": "Foo.swift"} lints a buffer`
	case "rules":
		return `{} lists enabled rules; {"id": "mark", "examples": true} shows one rule with its examples`
	}
	return ""
}
