package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/inodb/vibe-exome/internal/analysis"
	"github.com/inodb/vibe-exome/internal/datasource/genelist"
	"github.com/inodb/vibe-exome/internal/datasource/phenotype"
	"github.com/inodb/vibe-exome/internal/filter"
	"github.com/inodb/vibe-exome/internal/genome"
	"github.com/inodb/vibe-exome/internal/model"
	"github.com/inodb/vibe-exome/internal/prioritise"
)

// stepContext is what step decoders may read besides their options.
type stepContext struct {
	modes   []model.ModeOfInheritance
	resolve func(string) string
}

type stepDecoder func(opts map[string]any, sc stepContext) (analysis.Step, error)

// stepDecoders is keyed by lower-cased step name.
var stepDecoders = map[string]stepDecoder{
	"qualityfilter": func(opts map[string]any, _ stepContext) (analysis.Step, error) {
		var o struct {
			MinQuality float64 `mapstructure:"minQuality"`
		}
		if err := decode(opts, &o); err != nil {
			return analysis.Step{}, err
		}
		return analysis.VariantFilterStep(&filter.QualityFilter{MinQuality: o.MinQuality}), nil
	},
	"frequencyfilter": func(opts map[string]any, _ stepContext) (analysis.Step, error) {
		o := struct {
			MaxFrequency float64 `mapstructure:"maxFrequency"`
		}{MaxFrequency: 2}
		if err := decode(opts, &o); err != nil {
			return analysis.Step{}, err
		}
		if o.MaxFrequency < 0 || o.MaxFrequency > 100 {
			return analysis.Step{}, fmt.Errorf("maxFrequency %g is not a percentage", o.MaxFrequency)
		}
		return analysis.VariantFilterStep(&filter.FrequencyFilter{MaxFrequency: o.MaxFrequency}), nil
	},
	"pathogenicityfilter": func(opts map[string]any, _ stepContext) (analysis.Step, error) {
		var o struct {
			KeepNonPathogenic bool    `mapstructure:"keepNonPathogenic"`
			Threshold         float64 `mapstructure:"threshold"`
		}
		if err := decode(opts, &o); err != nil {
			return analysis.Step{}, err
		}
		return analysis.VariantFilterStep(&filter.PathogenicityFilter{
			KeepNonPathogenic: o.KeepNonPathogenic,
			Threshold:         o.Threshold,
		}), nil
	},
	"varianteffectfilter": func(opts map[string]any, _ stepContext) (analysis.Step, error) {
		var o struct {
			Remove []string `mapstructure:"remove"`
		}
		if err := decode(opts, &o); err != nil {
			return analysis.Step{}, err
		}
		effects := make([]model.VariantEffect, len(o.Remove))
		for i, s := range o.Remove {
			effects[i] = model.VariantEffect(strings.TrimSpace(s))
		}
		return analysis.VariantFilterStep(filter.NewVariantEffectFilter(effects...)), nil
	},
	"intervalfilter": func(opts map[string]any, _ stepContext) (analysis.Step, error) {
		var o struct {
			Intervals []string `mapstructure:"intervals"`
		}
		if err := decode(opts, &o); err != nil {
			return analysis.Step{}, err
		}
		if len(o.Intervals) == 0 {
			return analysis.Step{}, fmt.Errorf("at least one interval is required")
		}
		intervals := make([]genome.Interval, len(o.Intervals))
		for i, s := range o.Intervals {
			iv, err := genome.ParseInterval(s)
			if err != nil {
				return analysis.Step{}, err
			}
			intervals[i] = iv
		}
		return analysis.VariantFilterStep(filter.NewIntervalFilter(intervals)), nil
	},
	"knownvariantfilter": func(opts map[string]any, _ stepContext) (analysis.Step, error) {
		if err := decode(opts, &struct{}{}); err != nil {
			return analysis.Step{}, err
		}
		return analysis.VariantFilterStep(&filter.KnownVariantFilter{}), nil
	},
	"phenotypeprioritiser": func(opts map[string]any, sc stepContext) (analysis.Step, error) {
		var o struct {
			Scores       string  `mapstructure:"scores"`
			DefaultScore float64 `mapstructure:"defaultScore"`
		}
		if err := decode(opts, &o); err != nil {
			return analysis.Step{}, err
		}
		if o.Scores == "" {
			return analysis.Step{}, fmt.Errorf("scores file is required")
		}
		scores, err := phenotype.Load(sc.resolve(o.Scores))
		if err != nil {
			return analysis.Step{}, err
		}
		p := prioritise.NewPhenotypePrioritiser(scores)
		p.DefaultScore = o.DefaultScore
		return analysis.PrioritiserStep(p), nil
	},
	"genelistprioritiser": func(opts map[string]any, sc stepContext) (analysis.Step, error) {
		o := struct {
			Path          string  `mapstructure:"path"`
			ListedScore   float64 `mapstructure:"listedScore"`
			UnlistedScore float64 `mapstructure:"unlistedScore"`
		}{ListedScore: prioritise.DefaultListedScore, UnlistedScore: prioritise.DefaultUnlistedScore}
		if err := decode(opts, &o); err != nil {
			return analysis.Step{}, err
		}
		if o.Path == "" {
			return analysis.Step{}, fmt.Errorf("gene list path is required")
		}
		list, err := genelist.Load(sc.resolve(o.Path))
		if err != nil {
			return analysis.Step{}, err
		}
		p := prioritise.NewGeneListPrioritiser(list)
		p.ListedScore, p.UnlistedScore = o.ListedScore, o.UnlistedScore
		return analysis.PrioritiserStep(p), nil
	},
	"priorityscorefilter": func(opts map[string]any, _ stepContext) (analysis.Step, error) {
		var o struct {
			Prioritiser string  `mapstructure:"prioritiser"`
			MinScore    float64 `mapstructure:"minScore"`
		}
		if err := decode(opts, &o); err != nil {
			return analysis.Step{}, err
		}
		t := model.PriorityType(strings.ToUpper(strings.TrimSpace(o.Prioritiser)))
		switch t {
		case model.PriorityPhenotype, model.PriorityGeneList:
		default:
			return analysis.Step{}, fmt.Errorf("unknown prioritiser %q", o.Prioritiser)
		}
		return analysis.GeneFilterStep(&filter.PriorityScoreFilter{Prioritiser: t, MinScore: o.MinScore}), nil
	},
	"genesymbolfilter": func(opts map[string]any, _ stepContext) (analysis.Step, error) {
		var o struct {
			Symbols []string `mapstructure:"symbols"`
		}
		if err := decode(opts, &o); err != nil {
			return analysis.Step{}, err
		}
		return analysis.GeneFilterStep(filter.NewGeneSymbolFilter(o.Symbols...)), nil
	},
	"inheritancefilter": func(opts map[string]any, sc stepContext) (analysis.Step, error) {
		var o struct {
			Modes []string `mapstructure:"modes"`
		}
		if err := decode(opts, &o); err != nil {
			return analysis.Step{}, err
		}
		modes := sc.modes
		if len(o.Modes) > 0 {
			modes = make([]model.ModeOfInheritance, len(o.Modes))
			for i, s := range o.Modes {
				m, err := model.ParseModeOfInheritance(s)
				if err != nil {
					return analysis.Step{}, err
				}
				modes[i] = m
			}
		}
		return analysis.GeneFilterStep(&filter.InheritanceFilter{Modes: modes}), nil
	},
}

// StepNames lists the step keys an analysis file may use.
func StepNames() []string {
	names := []string{
		"qualityFilter", "frequencyFilter", "pathogenicityFilter", "variantEffectFilter",
		"intervalFilter", "knownVariantFilter", "phenotypePrioritiser", "geneListPrioritiser",
		"priorityScoreFilter", "geneSymbolFilter", "inheritanceFilter",
	}
	sort.Strings(names)
	return names
}

// DecodeSteps turns the steps list of an analysis file into analysis steps.
// Each entry is a single-key map from step name to its options. Inheritance
// filters without their own modes use modes. resolve maps resource paths.
func DecodeSteps(raw []map[string]any, modes []model.ModeOfInheritance, resolve func(string) string) ([]analysis.Step, error) {
	if resolve == nil {
		resolve = func(p string) string { return p }
	}
	sc := stepContext{modes: modes, resolve: resolve}

	steps := make([]analysis.Step, 0, len(raw))
	for i, entry := range raw {
		if len(entry) != 1 {
			return nil, fmt.Errorf("step %d: want exactly one step name, got %d keys", i+1, len(entry))
		}
		for name, value := range entry {
			dec, ok := stepDecoders[strings.ToLower(name)]
			if !ok {
				return nil, fmt.Errorf("step %d: unknown step %q (known: %s)", i+1, name, strings.Join(StepNames(), ", "))
			}
			opts, err := options(value)
			if err != nil {
				return nil, fmt.Errorf("step %d (%s): %w", i+1, name, err)
			}
			step, err := dec(opts, sc)
			if err != nil {
				return nil, fmt.Errorf("step %d (%s): %w", i+1, name, err)
			}
			steps = append(steps, step)
		}
	}
	return steps, nil
}

// options normalises a step value: nil for a bare key, otherwise a map with
// string keys.
func options(value any) (map[string]any, error) {
	switch v := value.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("options must be a map, got %T", value)
	}
}

func decode(opts map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(opts)
}
