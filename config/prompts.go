package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

// Prompts is the fixed text sent to the model with every image.
type Prompts struct {
	SystemInstruction string `yaml:"system_instruction"`
	Instruction       string `yaml:"instruction"`
}

// DefaultPrompts returns the prompts compiled into the binary.
func DefaultPrompts() Prompts {
	p, err := parsePrompts(defaultPrompts)
	if err != nil {
		panic("embedded prompts.yaml: " + err.Error())
	}
	return p
}

// LoadPrompts reads prompts from path, keeping the embedded value for any key
// the file leaves out. An empty path returns the defaults.
func LoadPrompts(path string) (Prompts, error) {
	def := DefaultPrompts()
	if path == "" {
		return def, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Prompts{}, fmt.Errorf("read prompts: %w", err)
	}
	p, err := parsePrompts(data)
	if err != nil {
		return Prompts{}, fmt.Errorf("parse prompts %s: %w", path, err)
	}
	if strings.TrimSpace(p.SystemInstruction) == "" {
		p.SystemInstruction = def.SystemInstruction
	}
	if strings.TrimSpace(p.Instruction) == "" {
		p.Instruction = def.Instruction
	}
	return p, nil
}

func parsePrompts(data []byte) (Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Prompts{}, err
	}
	if p.SystemInstruction == "" && p.Instruction == "" {
		return Prompts{}, errors.New("no prompts defined")
	}
	return p, nil
}
