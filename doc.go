// Package crudmcp provides safe, structured PostgreSQL CRUD access for AI
// agents through the Model Context Protocol (MCP).
//
// It exposes seven tools — Query, Insert, Update, Delete, Execute,
// ListTables, and DescribeTable. The structured tools build parameterized
// SQL from JSON filter and record objects: identifiers are validated before
// they enter statement text, values always travel as positional parameters,
// and UPDATE/DELETE refuse to run without a WHERE clause. Deletes estimate
// their impact with a COUNT(*) first and require an explicit confirm flag
// when the estimate exceeds the configured threshold.
//
// SQL injection is prevented at the protocol level using the pgx extended
// query protocol (QueryExecModeExec). Free-form SQL through Execute is
// additionally screened against a dangerous-statement rejection list and,
// when it parses, classified with PostgreSQL's actual C parser via pg_query
// to enforce read-only mode.
//
// # Library Usage
//
//	c, err := crudmcp.New(ctx, connString, crudmcp.Config{
//		Pool:     crudmcp.PoolConfig{MaxConns: 10},
//		ReadOnly: false,
//		Query: crudmcp.QueryConfig{
//			DefaultTimeoutSeconds:       30,
//			IntrospectionTimeoutSeconds: 10,
//		},
//	}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close(ctx)
//
//	// Use directly
//	output := c.Query(ctx, crudmcp.QueryInput{
//		Table: "users",
//		Where: map[string]any{"status": "active"},
//	})
//
//	// Or register as MCP tools
//	crudmcp.RegisterMCPTools(mcpServer, c)
//
// # Error Envelopes
//
// Tool methods never return Go errors. Every failure is reported inside the
// output envelope via the Error and ErrorCode fields, so an agent always
// receives a well-formed JSON document it can act on. Configured error
// prompts append guidance to matching failure messages.
package crudmcp
