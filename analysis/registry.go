package analysis

import (
	"slices"
	"strings"
	"sync"

	"github.com/npillmayer/keitai/errs"
	"gopkg.in/yaml.v3"
)

// CharacterFilterFactory creates a character filter from its arguments.
// args may be nil if no arguments are given.
type CharacterFilterFactory func(args *yaml.Node) (CharacterFilter, error)

// TokenFilterFactory creates a token filter from its arguments.
type TokenFilterFactory func(args *yaml.Node) (TokenFilter, error)

var registry = struct {
	sync.RWMutex
	chars  map[string]CharacterFilterFactory
	tokens map[string]TokenFilterFactory
}{
	chars:  map[string]CharacterFilterFactory{},
	tokens: map[string]TokenFilterFactory{},
}

// RegisterCharacterFilter makes a character filter available by name,
// replacing an earlier registration.
func RegisterCharacterFilter(name string, factory CharacterFilterFactory) {
	registry.Lock()
	defer registry.Unlock()
	registry.chars[name] = factory
}

// RegisterTokenFilter makes a token filter available by name.
func RegisterTokenFilter(name string, factory TokenFilterFactory) {
	registry.Lock()
	defer registry.Unlock()
	registry.tokens[name] = factory
}

// CharacterFilterNames returns the names of all registered character filters.
func CharacterFilterNames() []string {
	registry.RLock()
	defer registry.RUnlock()
	return sortedKeys(registry.chars)
}

// TokenFilterNames returns the names of all registered token filters.
func TokenFilterNames() []string {
	registry.RLock()
	defer registry.RUnlock()
	return sortedKeys(registry.tokens)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// NewCharacterFilter creates a registered character filter.
func NewCharacterFilter(name string, args *yaml.Node) (CharacterFilter, error) {
	registry.RLock()
	factory, ok := registry.chars[name]
	registry.RUnlock()
	if !ok {
		return nil, errs.Newf(errs.Args, "unknown character filter %q", name)
	}
	f, err := factory(args)
	return f, filterError(name, err)
}

// NewTokenFilter creates a registered token filter.
func NewTokenFilter(name string, args *yaml.Node) (TokenFilter, error) {
	registry.RLock()
	factory, ok := registry.tokens[name]
	registry.RUnlock()
	if !ok {
		return nil, errs.Newf(errs.Args, "unknown token filter %q", name)
	}
	f, err := factory(args)
	return f, filterError(name, err)
}

// filterError tags errors of filter constructors: errors without a kind are
// invalid argument values.
func filterError(name string, err error) error {
	if err == nil {
		return nil
	}
	return errs.Resource(errs.Args, name, err)
}

// decodeArgs decodes filter arguments into v. Missing arguments leave v
// untouched.
func decodeArgs(args *yaml.Node, v any) error {
	if args == nil || args.IsZero() {
		return nil
	}
	if err := args.Decode(v); err != nil {
		return errs.New(errs.Deserialize, err)
	}
	return nil
}

// ParseFilterFlag splits a command line filter argument of the form
//
//	kind:{"key":"value"}
//
// into the filter name and its arguments. The argument part is optional;
// JSON is accepted as a subset of YAML.
func ParseFilterFlag(flag string) (string, *yaml.Node, error) {
	name, payload, found := strings.Cut(flag, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, errs.Newf(errs.Args, "filter %q has no name", flag)
	}
	if !found || strings.TrimSpace(payload) == "" {
		return name, nil, nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(payload), &doc); err != nil {
		return "", nil, errs.Resource(errs.Deserialize, name, err)
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
		return name, doc.Content[0], nil
	}
	return name, &doc, nil
}

// CharacterFilterFromFlag creates a character filter from a command line
// argument.
func CharacterFilterFromFlag(flag string) (CharacterFilter, error) {
	name, args, err := ParseFilterFlag(flag)
	if err != nil {
		return nil, err
	}
	return NewCharacterFilter(name, args)
}

// TokenFilterFromFlag creates a token filter from a command line argument.
func TokenFilterFromFlag(flag string) (TokenFilter, error) {
	name, args, err := ParseFilterFlag(flag)
	if err != nil {
		return nil, err
	}
	return NewTokenFilter(name, args)
}

func init() {
	RegisterCharacterFilter("mapping", func(args *yaml.Node) (CharacterFilter, error) {
		var a mappingArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		f, err := NewMappingCharacterFilter(a.Mapping)
		if err != nil {
			return nil, err
		}
		return f, nil
	})
	RegisterCharacterFilter("unicode_normalize", func(args *yaml.Node) (CharacterFilter, error) {
		a := kindArgs{Kind: "nfkc"}
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		f, err := NewUnicodeNormalizeCharacterFilter(a.Kind)
		if err != nil {
			return nil, err
		}
		return f, nil
	})
	RegisterTokenFilter("mapping", func(args *yaml.Node) (TokenFilter, error) {
		var a mappingArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		f, err := NewMappingTokenFilter(a.Mapping)
		if err != nil {
			return nil, err
		}
		return f, nil
	})
	RegisterTokenFilter("japanese_keep_tags", func(args *yaml.Node) (TokenFilter, error) {
		var a tagsArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		if len(a.Tags) == 0 {
			return nil, errs.Newf(errs.Deserialize, "tags is required")
		}
		return NewKeepTagsTokenFilter(a.Tags), nil
	})
	RegisterTokenFilter("japanese_stop_tags", func(args *yaml.Node) (TokenFilter, error) {
		var a tagsArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		if len(a.Tags) == 0 {
			return nil, errs.Newf(errs.Deserialize, "tags is required")
		}
		return NewStopTagsTokenFilter(a.Tags), nil
	})
	RegisterTokenFilter("lowercase", func(args *yaml.Node) (TokenFilter, error) {
		var a struct {
			Language string `yaml:"language"`
		}
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		f, err := NewLowercaseTokenFilter(a.Language)
		if err != nil {
			return nil, err
		}
		return f, nil
	})
	for _, name := range []string{"japanese_base_form", "japanese_reading_form"} {
		RegisterTokenFilter(name, func(args *yaml.Node) (TokenFilter, error) {
			a := kindArgs{Kind: "ipadic"}
			if err := decodeArgs(args, &a); err != nil {
				return nil, err
			}
			f, err := newFieldFormTokenFilter(name, a.Kind)
			if err != nil {
				return nil, err
			}
			return f, nil
		})
	}
	RegisterTokenFilter("length", func(args *yaml.Node) (TokenFilter, error) {
		var a lengthArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		f, err := NewLengthTokenFilter(a.Min, a.Max)
		if err != nil {
			return nil, err
		}
		return f, nil
	})
}
