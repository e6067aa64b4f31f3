package cmd

import "github.com/ziadkadry99/code-landscape/internal/graphdoc"

// demoDocument builds a small web application graph touching every node
// and edge type, for trying the viewer without an analyzer.
func demoDocument() *graphdoc.Document {
	b := graphdoc.NewBuilder()

	nodes := []graphdoc.Node{
		{ID: "main.py", Label: "main.py", Type: graphdoc.TypeFile, FilePath: "main.py"},
		{ID: "settings", Label: "Settings", Type: graphdoc.TypeConfig, FilePath: "config.py", LineNumber: 3},
		{ID: "app", Label: "app", Type: graphdoc.TypeModule, FilePath: "app/__init__.py"},
		{ID: "auth_mw", Label: "AuthMiddleware", Type: graphdoc.TypeMiddleware, FilePath: "app/middleware.py", LineNumber: 8},
		{ID: "log_mw", Label: "LoggingMiddleware", Type: graphdoc.TypeMiddleware, FilePath: "app/middleware.py", LineNumber: 30},
		{ID: "users_router", Label: "users_router", Type: graphdoc.TypeRouter, FilePath: "app/routes/users.py", LineNumber: 5},
		{ID: "orders_router", Label: "orders_router", Type: graphdoc.TypeRouter, FilePath: "app/routes/orders.py", LineNumber: 5},
		{ID: "GET /users/{id}", Label: "GET /users/{id}", Type: graphdoc.TypeEndpoint, FilePath: "app/routes/users.py", LineNumber: 12},
		{ID: "POST /orders", Label: "POST /orders", Type: graphdoc.TypeEndpoint, FilePath: "app/routes/orders.py", LineNumber: 14},
		{ID: "get_user", Label: "get_user", Type: graphdoc.TypeFunction, FilePath: "app/routes/users.py", LineNumber: 13},
		{ID: "create_order", Label: "create_order", Type: graphdoc.TypeFunction, FilePath: "app/routes/orders.py", LineNumber: 15},
		{ID: "UserService", Label: "UserService", Type: graphdoc.TypeService, FilePath: "app/services/users.py", LineNumber: 6},
		{ID: "OrderService", Label: "OrderService", Type: graphdoc.TypeService, FilePath: "app/services/orders.py", LineNumber: 9},
		{ID: "BaseService", Label: "BaseService", Type: graphdoc.TypeClass, FilePath: "app/services/base.py", LineNumber: 1},
		{ID: "User", Label: "User", Type: graphdoc.TypeModel, FilePath: "app/models.py", LineNumber: 10},
		{ID: "Order", Label: "Order", Type: graphdoc.TypeModel, FilePath: "app/models.py", LineNumber: 25},
		{ID: "payments_api", Label: "PaymentsClient", Type: graphdoc.TypeClass, FilePath: "app/clients/payments.py", LineNumber: 4},
		{ID: "send_receipt", Label: "send_receipt", Type: graphdoc.TypeTask, FilePath: "app/tasks.py", LineNumber: 18},
		{ID: "slugify", Label: "slugify", Type: graphdoc.TypeUtility, FilePath: "app/utils.py", LineNumber: 2},
		{ID: "OrderForm", Label: "OrderForm", Type: graphdoc.TypeComponent, FilePath: "web/OrderForm.tsx", LineNumber: 1},
		{ID: "test_orders", Label: "test_create_order", Type: graphdoc.TypeTest, FilePath: "tests/test_orders.py", LineNumber: 7},
	}
	for _, n := range nodes {
		b.AddNode(n)
	}

	edges := []graphdoc.Edge{
		{Source: "main.py", Target: "app", Type: graphdoc.EdgeImports},
		{Source: "main.py", Target: "settings", Type: graphdoc.EdgeImports},
		{Source: "app", Target: "log_mw", Type: graphdoc.EdgeMiddlewareChain},
		{Source: "log_mw", Target: "auth_mw", Type: graphdoc.EdgeMiddlewareChain},
		{Source: "app", Target: "users_router", Type: graphdoc.EdgeUses},
		{Source: "app", Target: "orders_router", Type: graphdoc.EdgeUses},
		{Source: "users_router", Target: "GET /users/{id}", Type: graphdoc.EdgeUses},
		{Source: "orders_router", Target: "POST /orders", Type: graphdoc.EdgeUses},
		{Source: "GET /users/{id}", Target: "get_user", Type: graphdoc.EdgeEndpointHandler},
		{Source: "POST /orders", Target: "create_order", Type: graphdoc.EdgeEndpointHandler},
		{Source: "get_user", Target: "UserService", Type: graphdoc.EdgeCalls},
		{Source: "create_order", Target: "OrderService", Type: graphdoc.EdgeCalls},
		{Source: "OrderService", Target: "UserService", Type: graphdoc.EdgeCalls},
		{Source: "UserService", Target: "BaseService", Type: graphdoc.EdgeInherits},
		{Source: "OrderService", Target: "BaseService", Type: graphdoc.EdgeInherits},
		{Source: "UserService", Target: "User", Type: graphdoc.EdgeDBRead},
		{Source: "OrderService", Target: "Order", Type: graphdoc.EdgeDBWrite},
		{Source: "OrderService", Target: "payments_api", Type: graphdoc.EdgeCalls},
		{Source: "payments_api", Target: "settings", Type: graphdoc.EdgeUses},
		{Source: "OrderService", Target: "send_receipt", Type: graphdoc.EdgeCalls},
		{Source: "send_receipt", Target: "slugify", Type: graphdoc.EdgeCalls},
		{Source: "OrderForm", Target: "POST /orders", Type: graphdoc.EdgeAPICall},
		{Source: "test_orders", Target: "create_order", Type: graphdoc.EdgeCalls},
	}
	for _, e := range edges {
		b.AddEdge(e)
	}

	return b.Build("demo-shop")
}
