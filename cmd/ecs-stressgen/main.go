// Command ecs-stressgen writes the generated component and system types used
// by ecs-stress.
//
//	go run ./cmd/ecs-stressgen -components 24 -systems 8 -out cmd/ecs-stress/generated.go
package main

import (
	"bytes"
	"flag"
	"os"
	"text/template"

	"github.com/rs/zerolog"
	"golang.org/x/tools/imports"
)

type component struct {
	Index     int
	BlockSize int
}

type system struct {
	Index int
	// Reads and Writes index into the component list.
	Writes int
	Reads  int
}

type generatorInput struct {
	Components []component
	Systems    []system
}

const source = `// Code generated by ecs-stressgen. DO NOT EDIT.

package main

import "github.com/plus3/ecspool/ecs"

const (
	componentCount = {{len .Components}}
	systemCount    = {{len .Systems}}
)
{{range .Components}}
type Component{{.Index}} struct {
	Value float64
	Ticks int
}
{{if .BlockSize}}
func (Component{{.Index}}) ComponentHints() ecs.Hints {
	return ecs.Hints{BlockSize: {{.BlockSize}}, AutoResize: true}
}
{{end}}{{end}}
// RegisterAllGeneratedComponents registers every generated component type.
func RegisterAllGeneratedComponents(registry *ecs.ComponentRegistry) {
{{- range .Components}}
	ecs.RegisterComponent[Component{{.Index}}](registry)
{{- end}}
}

// componentCreators create one generated component on an entity, indexed by
// component number.
var componentCreators = [componentCount]func(*ecs.Storage, ecs.EntityId) error{
{{- range .Components}}
	func(s *ecs.Storage, e ecs.EntityId) error {
		_, err := ecs.Create(s, e, Component{{.Index}}{Value: {{.Index}}})
		return err
	},
{{- end}}
}

// componentCounters report the live count of each generated component type.
var componentCounters = [componentCount]func(*ecs.Storage) int{
{{- range .Components}}
	ecs.Count[Component{{.Index}}],
{{- end}}
}
{{range .Systems}}
type System{{.Index}} struct {
	Target ecs.PoolRef[Component{{.Writes}}]
	Source ecs.PoolRef[Component{{.Reads}}]
}

func (s *System{{.Index}}) Execute(frame *ecs.UpdateFrame) {
	var total float64
	s.Source.CForEach(func(c ecs.ConstRef[Component{{.Reads}}]) {
		total += c.Value().Value
	})
	s.Target.ForEach(func(c *ecs.Component[Component{{.Writes}}]) {
		c.Data.Value += frame.DeltaTime + total*1e-9
		c.Data.Ticks++
	})
}
{{end}}
// RegisterAllGeneratedSystems registers every generated system.
func RegisterAllGeneratedSystems(scheduler *ecs.Scheduler) {
{{- range .Systems}}
	scheduler.Register(&System{{.Index}}{})
{{- end}}
}
`

func main() {
	components := flag.Int("components", 24, "Number of component types to generate.")
	systems := flag.Int("systems", 8, "Number of systems to generate.")
	out := flag.String("out", "generated.go", "Output file.")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *components < 2 || *systems < 0 {
		logger.Fatal().Int("components", *components).Int("systems", *systems).Msg("need at least 2 components")
	}

	src, err := generate(*components, *systems, *out)
	if err != nil {
		logger.Fatal().Err(err).Msg("generating source")
	}
	if err := os.WriteFile(*out, src, 0o644); err != nil {
		logger.Fatal().Err(err).Str("out", *out).Msg("writing source")
	}
	logger.Info().Str("out", *out).Int("components", *components).Int("systems", *systems).Msg("generated stress types")
}

// generate renders the source and runs it through goimports.
func generate(componentCount, systemCount int, filename string) ([]byte, error) {
	in := generatorInput{}
	for i := range componentCount {
		c := component{Index: i}
		switch i % 3 {
		case 0:
			c.BlockSize = 16
		case 2:
			c.BlockSize = 256
		}
		in.Components = append(in.Components, c)
	}
	for i := range systemCount {
		in.Systems = append(in.Systems, system{
			Index:  i,
			Writes: i % componentCount,
			Reads:  (i*7 + 1) % componentCount,
		})
	}

	tmpl, err := template.New("generated").Parse(source)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, in); err != nil {
		return nil, err
	}

	return imports.Process(filename, buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
		Fragment:  false,
	})
}
