package tools

// BuiltinOptions carries configuration the built-in tools need at
// registration time.
type BuiltinOptions struct {
	// SearchAPIKey is the SerpAPI key for web_search. Empty falls back to
	// the SERPAPI_API_KEY environment variable at call time.
	SearchAPIKey string
}

// Builtins returns every built-in tool in a stable order.
func Builtins(opts BuiltinOptions) []Tool {
	return []Tool{
		CalculatorTool(),
		CurrentTimeTool(),
		SystemInfoTool(),
		FileStatusTool(),
		DiskUsageTool(),
		EnvGetTool(),
		EnvSetTool(),
		ReadTool(),
		WriteTool(),
		EditTool(),
		GlobTool(),
		GrepTool(),
		BashTool(),
		HTTPRequestTool(),
		WebSearchTool(opts.SearchAPIKey),
		ClipboardCopyTool(),
	}
}

// RegisterBuiltins registers every built-in tool on r.
func RegisterBuiltins(r *Registry, opts BuiltinOptions) error {
	for _, t := range Builtins(opts) {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}
