package toolhost

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/Cyclone1070/agentkit/internal/tool"
)

// ExampleToolName is the name of the placeholder tool.
const ExampleToolName = "example_tool"

// exampleRequest is the typed form of the example tool's arguments.
type exampleRequest struct {
	Message any            `mapstructure:"message"`
	Extra   map[string]any `mapstructure:",remain"`
}

// NewExampleTool returns a tool that performs no work and echoes its arguments.
func NewExampleTool() Tool {
	return Tool{
		Declaration: tool.Declaration{
			Name:        ExampleToolName,
			Description: "An example tool that echoes the arguments it receives",
			Parameters: &tool.Schema{
				Type: tool.TypeObject,
				Properties: map[string]*tool.Schema{
					"message": {Type: tool.TypeString, Description: "Text to echo back"},
				},
			},
		},
		Handler: echo,
	}
}

func echo(_ context.Context, args map[string]any) (string, error) {
	var req exampleRequest
	if err := mapstructure.Decode(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	echoed := make(map[string]any, len(req.Extra)+1)
	for k, v := range req.Extra {
		echoed[k] = v
	}
	if _, ok := args["message"]; ok {
		echoed["message"] = req.Message
	}

	data, err := json.Marshal(echoed)
	if err != nil {
		return "", fmt.Errorf("encode arguments: %w", err)
	}
	return fmt.Sprintf("Tool %s executed with args: %s", ExampleToolName, data), nil
}
