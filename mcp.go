package crudmcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers the seven tools — query, insert, update,
// delete, execute, list_tables, and describe_table — on the given MCP
// server. Tool failures are reported inside the JSON envelope, so handlers
// return tool errors only for malformed argument objects.
func RegisterMCPTools(mcpServer *server.MCPServer, c *CrudMcp) {
	queryTool := mcp.NewTool("query",
		mcp.WithDescription("Select rows from a table with structured filters, sorting, and pagination. Returns rows as JSON."),
		mcp.WithString("table", mcp.Required(), mcp.Description("Table name")),
		mcp.WithArray("columns", mcp.Description("Columns to select (default: all)")),
		mcp.WithObject("where", mcp.Description("Filter object: column to value. null matches IS NULL, arrays match IN, strings containing % match LIKE, anything else matches equality. Conditions are combined with AND.")),
		mcp.WithString("order_by", mcp.Description("Column to sort by")),
		mcp.WithString("order_dir", mcp.Description("ASC (default) or DESC")),
		mcp.WithObject("pagination", mcp.Description("{limit (1-1000), offset (>=0)}; adds a pagination block with the total matching count")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	mcpServer.AddTool(queryTool, c.loggedToolHandler("query", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input QueryInput
		if err := bindArguments(req, &input); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return marshalResult(c.Query(ctx, input))
	}))

	insertTool := mcp.NewTool("insert",
		mcp.WithDescription("Insert one record or a batch of records into a table. Supports ON CONFLICT handling and RETURNING."),
		mcp.WithString("table", mcp.Required(), mcp.Description("Table name")),
		mcp.WithObject("data", mcp.Required(), mcp.Description("Record object, or array of record objects sharing the same columns")),
		mcp.WithString("on_conflict", mcp.Description("error (default), ignore, or update")),
		mcp.WithArray("conflict_columns", mcp.Description("Conflict target columns for ignore/update")),
		mcp.WithArray("returning", mcp.Description("Columns to return; omit for all columns, pass [] for none")),
	)
	mcpServer.AddTool(insertTool, c.loggedToolHandler("insert", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		// A single record object is accepted as a batch of one.
		if rec, ok := args["data"].(map[string]any); ok {
			args["data"] = []any{rec}
		}
		var input InsertInput
		if err := bindMap(args, &input); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return marshalResult(c.Insert(ctx, input))
	}))

	updateTool := mcp.NewTool("update",
		mcp.WithDescription("Update rows in a table. A where filter is mandatory."),
		mcp.WithString("table", mcp.Required(), mcp.Description("Table name")),
		mcp.WithObject("data", mcp.Required(), mcp.Description("Column to new value object (SET clause)")),
		mcp.WithObject("where", mcp.Required(), mcp.Description("Filter object; same semantics as the query tool")),
		mcp.WithArray("returning", mcp.Description("Columns to return; omit for all columns, pass [] for none")),
	)
	mcpServer.AddTool(updateTool, c.loggedToolHandler("update", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input UpdateInput
		if err := bindArguments(req, &input); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return marshalResult(c.Update(ctx, input))
	}))

	deleteTool := mcp.NewTool("delete",
		mcp.WithDescription("Delete rows from a table. A where filter is mandatory; deletes whose estimated impact exceeds the threshold require confirm."),
		mcp.WithString("table", mcp.Required(), mcp.Description("Table name")),
		mcp.WithObject("where", mcp.Required(), mcp.Description("Filter object; same semantics as the query tool")),
		mcp.WithBoolean("confirm", mcp.Description("Set to skip impact estimation and delete regardless of the matching row count")),
		mcp.WithArray("returning", mcp.Description("Columns to return; omit for all columns, pass [] for none")),
	)
	mcpServer.AddTool(deleteTool, c.loggedToolHandler("delete", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input DeleteInput
		if err := bindArguments(req, &input); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return marshalResult(c.Delete(ctx, input))
	}))

	executeTool := mcp.NewTool("execute",
		mcp.WithDescription("Execute free-form SQL with optional positional parameters ($1, $2, ...). DDL and WHERE-less DELETE/UPDATE are rejected."),
		mcp.WithString("sql", mcp.Required(), mcp.Description("The SQL statement to execute")),
		mcp.WithArray("params", mcp.Description("Positional parameter values")),
	)
	mcpServer.AddTool(executeTool, c.loggedToolHandler("execute", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input ExecuteInput
		if err := bindArguments(req, &input); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return marshalResult(c.Execute(ctx, input))
	}))

	listTablesTool := mcp.NewTool("list_tables",
		mcp.WithDescription("List all tables, views, materialized views, and foreign tables accessible to the current user."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	mcpServer.AddTool(listTablesTool, c.loggedToolHandler("list_tables", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return marshalResult(c.ListTables(ctx, ListTablesInput{}))
	}))

	describeTableTool := mcp.NewTool("describe_table",
		mcp.WithDescription("Describe a table: columns, types, indexes, and foreign keys."),
		mcp.WithString("table", mcp.Required(), mcp.Description("The table name to describe")),
		mcp.WithString("schema", mcp.Description("The schema name (defaults to 'public')")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	mcpServer.AddTool(describeTableTool, c.loggedToolHandler("describe_table", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input DescribeTableInput
		if err := bindArguments(req, &input); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return marshalResult(c.DescribeTable(ctx, input))
	}))
}

// bindArguments decodes the request's argument object into input.
func bindArguments(req mcp.CallToolRequest, input any) error {
	return bindMap(req.GetArguments(), input)
}

func bindMap(args map[string]any, input any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, input)
}

// marshalResult serializes an envelope into a text tool result.
func marshalResult(output any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return mcp.NewToolResultError("failed to marshal tool result"), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// loggedToolHandler wraps a tool handler to log request and response lengths.
func (c *CrudMcp) loggedToolHandler(tool string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		reqLen := requestLength(req)
		result, err := handler(ctx, req)
		respLen := resultLength(result)
		c.logger.Info().
			Str("tool", tool).
			Int("request_bytes", reqLen).
			Int("response_bytes", respLen).
			Msg("tool call")
		return result, err
	}
}

// requestLength returns the JSON-encoded byte length of the request arguments.
func requestLength(req mcp.CallToolRequest) int {
	args := req.GetArguments()
	if len(args) == 0 {
		return 0
	}
	b, err := json.Marshal(args)
	if err != nil {
		return 0
	}
	return len(b)
}

// resultLength returns the total byte length of text content in a CallToolResult.
func resultLength(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	total := 0
	for _, content := range result.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			total += len(tc.Text)
		}
	}
	return total
}
