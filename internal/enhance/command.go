package enhance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"sakanacore/pkg/domain"
)

var _ domain.TextGenerator = (*CommandGenerator)(nil)

// MaxTokensEnv carries the token budget to the generator command.
const MaxTokensEnv = "SAKANA_MAX_TOKENS"

// CommandGenerator runs an external program as the text generator. The system
// prompt, a blank line and the user prompt are written to its stdin; its
// stdout is the generated text.
type CommandGenerator struct {
	Binary string
	Args   []string
}

// NewCommandGenerator parses a command line split on whitespace.
func NewCommandGenerator(commandLine string) (*CommandGenerator, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, errors.New("generator command is empty")
	}
	return &CommandGenerator{Binary: fields[0], Args: fields[1:]}, nil
}

// Generate implements domain.TextGenerator.
func (g *CommandGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	cmd := exec.CommandContext(ctx, g.Binary, g.Args...)
	cmd.Stdin = strings.NewReader(systemPrompt + "\n\n" + userPrompt)
	cmd.Env = append(os.Environ(), MaxTokensEnv+"="+strconv.Itoa(maxTokens))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("run %s: %w: %s", g.Binary, err, msg)
		}
		return "", fmt.Errorf("run %s: %w", g.Binary, err)
	}
	return stdout.String(), nil
}
