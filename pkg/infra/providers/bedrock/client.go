package bedrock

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/memorylane/dailyquestion/pkg/infra/awsauth"
	infraBedrock "github.com/memorylane/dailyquestion/pkg/infra/bedrock"
	"github.com/memorylane/dailyquestion/pkg/infra/providers"
	"github.com/mitchellh/mapstructure"
)

const defaultModel = "anthropic.claude-3-haiku-20240307-v1:0"

// bedrockOptions come from the provider's options block in providers.yaml.
type bedrockOptions struct {
	SecretKey    string `mapstructure:"secret_key"`
	SessionToken string `mapstructure:"session_token"`
	RoleARN      string `mapstructure:"role_arn"`
}

type client struct {
	builder infraBedrock.Client
}

func NewBedrockClient(builder infraBedrock.Client) providers.Client {
	return &client{builder: builder}
}

func (c *client) Ask(
	ctx context.Context,
	config *providers.Config,
	prompt string,
) (*providers.CompletionResponse, error) {
	var opts bedrockOptions
	if len(config.Options) > 0 {
		if err := mapstructure.Decode(config.Options, &opts); err != nil {
			return nil, fmt.Errorf("invalid bedrock options: %w", err)
		}
	}

	runtime, err := c.builder.BuildClient(ctx, awsauth.Credentials{
		AccessKey:    config.Credentials.APIKey,
		SecretKey:    opts.SecretKey,
		SessionToken: opts.SessionToken,
		Region:       config.Credentials.Region,
		RoleARN:      opts.RoleARN,
	})
	if err != nil {
		return nil, err
	}

	model := defaultModel
	if config.Model != "" {
		model = config.Model
	}

	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(model),
		Messages: buildMessages(config, prompt),
	}
	if config.SystemPrompt != "" {
		input.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: config.SystemPrompt},
		}
	}
	inference := &types.InferenceConfiguration{}
	if config.MaxTokens > 0 {
		inference.MaxTokens = aws.Int32(int32(config.MaxTokens))
	}
	if config.Temperature > 0 {
		inference.Temperature = aws.Float32(float32(config.Temperature))
	}
	input.InferenceConfig = inference

	out, err := runtime.Converse(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("bedrock converse failed: %w", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return nil, providers.ErrEmptyResponse
	}
	var b strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			b.WriteString(text.Value)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return nil, providers.ErrEmptyResponse
	}

	resp := &providers.CompletionResponse{
		Model:    model,
		Response: b.String(),
	}
	if out.Usage != nil {
		resp.Usage = providers.Usage{
			PromptTokens:     int(aws.ToInt32(out.Usage.InputTokens)),
			CompletionTokens: int(aws.ToInt32(out.Usage.OutputTokens)),
			TotalTokens:      int(aws.ToInt32(out.Usage.TotalTokens)),
		}
	}
	return resp, nil
}

func buildMessages(config *providers.Config, prompt string) []types.Message {
	var content []types.ContentBlock
	if len(config.Instructions) > 0 {
		content = append(content, &types.ContentBlockMemberText{Value: providers.FormatInstructions(config.Instructions)})
	}
	if prompt != "" {
		content = append(content, &types.ContentBlockMemberText{Value: prompt})
	}
	return []types.Message{{
		Role:    types.ConversationRoleUser,
		Content: content,
	}}
}
