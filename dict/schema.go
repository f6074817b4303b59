package dict

import (
	"fmt"
	"os"
	"slices"

	"github.com/npillmayer/keitai/errs"
	"gopkg.in/yaml.v3"
)

// Schema describes the detail records of a dictionary kind.
//
// Fields names the detail fields in record order. Simple is the template used
// to expand a simple user dictionary row (surface, part of speech, reading)
// to a full record; its items are the placeholders $surface, $pos and
// $reading, or literal values.
type Schema struct {
	Kind   string   `yaml:"kind"`
	Fields []string `yaml:"fields"`
	Simple []string `yaml:"simple,omitempty"`
}

// Wildcard fills detail fields without a value.
const Wildcard = "*"

var builtinSchemas = map[string]Schema{
	"ipadic": {
		Kind: "ipadic",
		Fields: []string{
			"part_of_speech",
			"part_of_speech_subcategory_1",
			"part_of_speech_subcategory_2",
			"part_of_speech_subcategory_3",
			"conjugation_type",
			"conjugation_form",
			"base_form",
			"reading",
			"pronunciation",
		},
		Simple: []string{"$pos", "*", "*", "*", "*", "*", "$surface", "$reading", "*"},
	},
	"unidic": {
		Kind: "unidic",
		Fields: []string{
			"part_of_speech",
			"part_of_speech_subcategory_1",
			"part_of_speech_subcategory_2",
			"part_of_speech_subcategory_3",
			"conjugation_type",
			"conjugation_form",
			"reading",
			"lexeme",
			"orthographic_surface_form",
			"phonological_surface_form",
			"orthographic_base_form",
			"phonological_base_form",
			"word_type",
			"initial_mutation_type",
			"initial_mutation_form",
			"final_mutation_type",
			"final_mutation_form",
		},
		Simple: []string{"$pos", "*", "*", "*", "*", "*", "$reading", "$surface",
			"$surface", "*", "$surface", "*", "*", "*", "*", "*", "*"},
	},
	"ko-dic": {
		Kind: "ko-dic",
		Fields: []string{
			"part_of_speech_tag",
			"meaning",
			"presence_absence",
			"reading",
			"type",
			"first_part_of_speech",
			"last_part_of_speech",
			"expression",
		},
		Simple: []string{"$pos", "*", "*", "$reading", "*", "*", "*", "*"},
	},
	"cc-cedict": {
		Kind: "cc-cedict",
		Fields: []string{
			"part_of_speech",
			"part_of_speech_subcategory_1",
			"part_of_speech_subcategory_2",
			"part_of_speech_subcategory_3",
			"pinyin",
			"traditional",
			"simplified",
			"definition",
		},
		Simple: []string{"$pos", "*", "*", "*", "$reading", "*", "*", "*"},
	},
}

// SchemaFor returns the built-in schema of a dictionary kind.
func SchemaFor(kind string) (Schema, error) {
	s, ok := builtinSchemas[kind]
	if !ok {
		return Schema{}, errs.Newf(errs.Args, "unknown dictionary kind %q", kind)
	}
	s.Fields = slices.Clone(s.Fields)
	s.Simple = slices.Clone(s.Simple)
	return s, nil
}

// Kinds lists the built-in dictionary kinds.
func Kinds() []string {
	kinds := make([]string, 0, len(builtinSchemas))
	for k := range builtinSchemas {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// FieldIndex returns the position of a named field, or -1.
func (s Schema) FieldIndex(name string) int {
	return slices.Index(s.Fields, name)
}

// Validate checks that the schema is usable.
func (s Schema) Validate() error {
	if len(s.Fields) == 0 {
		return errs.Newf(errs.Args, "schema %q has no fields", s.Kind)
	}
	if len(s.Simple) != 0 && len(s.Simple) != len(s.Fields) {
		return errs.Newf(errs.Args, "schema %q: simple template has %d items for %d fields",
			s.Kind, len(s.Simple), len(s.Fields))
	}
	return nil
}

// SimpleDetails expands a simple user dictionary row into a full record.
// Without a template, the record is pos and reading followed by wildcards.
func (s Schema) SimpleDetails(surface, pos, reading string) []string {
	details := make([]string, len(s.Fields))
	for i := range details {
		details[i] = Wildcard
		if len(s.Simple) == 0 {
			continue
		}
		switch item := s.Simple[i]; item {
		case "$surface":
			details[i] = surface
		case "$pos":
			details[i] = pos
		case "$reading":
			details[i] = reading
		default:
			details[i] = item
		}
	}
	if len(s.Simple) == 0 && len(details) >= 2 {
		details[0], details[1] = pos, reading
	}
	return details
}

// Metadata is the content of metadata.yaml in a dictionary directory.
type Metadata struct {
	Schema      `yaml:",inline"`
	Compression string `yaml:"compression,omitempty"`
	Words       int    `yaml:"words,omitempty"`
	// Decompose is the compound penalty policy; absent means
	// DefaultDecomposePolicy.
	Decompose *DecomposePolicy `yaml:"decompose,omitempty"`
}

// ReadMetadata reads a metadata file.
func ReadMetadata(path string) (Metadata, error) {
	var md Metadata
	data, err := os.ReadFile(path)
	if err != nil {
		return md, errs.Resource(errs.IO, MetadataFile, err)
	}
	if err := yaml.Unmarshal(data, &md); err != nil {
		return md, errs.Resource(errs.Deserialize, MetadataFile, err)
	}
	if err := md.Schema.Validate(); err != nil {
		return md, errs.Resource(errs.Deserialize, MetadataFile, err)
	}
	return md, nil
}

// WriteMetadata writes a metadata file.
func WriteMetadata(path string, md Metadata) error {
	data, err := yaml.Marshal(md)
	if err != nil {
		return errs.Resource(errs.Serialize, MetadataFile, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Resource(errs.IO, MetadataFile, fmt.Errorf("writing metadata: %w", err))
	}
	return nil
}
