// Package mcpserver 把 HR 门户的业务操作暴露为 MCP 工具，供智能体通过 stdio 调用。
package mcpserver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"hrportal/internal/services"
)

const (
	serverName    = "hrportal"
	serverVersion = "1.0.0"
)

// Server 持有业务服务和底层 MCP server。
type Server struct {
	svc       *services.Service
	logger    *slog.Logger
	mcp       *server.MCPServer
	toolNames []string
}

// New 创建 MCP server 并注册全部工具。
func New(svc *services.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		svc:    svc,
		logger: logger,
		mcp:    server.NewMCPServer(serverName, serverVersion),
	}
	s.registerJobTools()
	s.registerPeopleTools()
	s.registerPayslipTools()
	return s
}

// MCP 返回底层 server，便于选择不同的传输方式。
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio 以 stdio 传输运行，直到输入流关闭。
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcp.AddTool(tool, handler)
	s.toolNames = append(s.toolNames, tool.Name)
}

func objectSchema(properties map[string]interface{}, required ...string) mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

func arguments(request mcp.CallToolRequest) (map[string]interface{}, bool) {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}, true
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	return args, ok
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

// jsonResult 以缩进 JSON 文本返回结果。
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError 记录日志并把业务错误转成工具错误结果；工具错误不会中断会话。
func (s *Server) toolError(tool string, err error) (*mcp.CallToolResult, error) {
	s.logger.Warn("mcp tool failed", slog.String("tool", tool), slog.Any("error", err))
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", tool, err)), nil
}
