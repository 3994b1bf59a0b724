package event

import (
	"bufio"
	"fmt"
	"io"
)

// FieldType is the wire type of an event field as declared to the host.
type FieldType string

const (
	FieldShort  FieldType = "short"
	FieldString FieldType = "string"
)

// Field describes one typed event field.
type Field struct {
	Name string
	Type FieldType
	Doc  string
}

// Schema declares a custom event so the host can register it.
type Schema struct {
	Name   Name
	Doc    string
	Fields []Field
}

// FlagSchemas declares the four custom flag events.
var FlagSchemas = []Schema{
	{
		Name: NameFlagCaptured,
		Doc:  "Called when a player captures the enemy flag.",
		Fields: []Field{
			{Name: "userid", Type: FieldShort, Doc: "The userid of the flag capturer"},
			{Name: "team", Type: FieldShort, Doc: "The team of the flag capturer"},
			{Name: "flag_team", Type: FieldShort, Doc: "The team of the flag that was captured"},
		},
	},
	{
		Name: NameFlagDropped,
		Doc:  "Called when a carrier drops the flag.",
		Fields: []Field{
			{Name: "userid", Type: FieldShort, Doc: "The userid of the player that dropped the flag"},
			{Name: "attacker", Type: FieldShort, Doc: "The userid of the player that killed the flag carrier"},
			{Name: "location", Type: FieldString, Doc: "The space separated location where the flag was dropped"},
			{Name: "flag_team", Type: FieldShort, Doc: "The team of the flag that was dropped"},
		},
	},
	{
		Name: NameFlagReturned,
		Doc:  "Called when a dropped flag is returned home.",
		Fields: []Field{
			{Name: "userid", Type: FieldShort, Doc: "The userid of the player who returned the flag"},
			{Name: "flag_team", Type: FieldShort, Doc: "The team of the flag that was returned"},
		},
	},
	{
		Name: NameFlagTaken,
		Doc:  "Called when a player takes the enemy flag.",
		Fields: []Field{
			{Name: "userid", Type: FieldShort, Doc: "The userid of the player who took the flag"},
			{Name: "flag_team", Type: FieldShort, Doc: "The team of the flag that was taken"},
		},
	},
}

// WriteResource writes schemas in the host's KeyValues resource format.
func WriteResource(w io.Writer, resource string, schemas []Schema) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%q\n{\n", resource)
	for _, s := range schemas {
		if s.Doc != "" {
			fmt.Fprintf(bw, "\t// %s\n", s.Doc)
		}
		fmt.Fprintf(bw, "\t%q\n\t{\n", string(s.Name))
		for _, f := range s.Fields {
			fmt.Fprintf(bw, "\t\t%q\t%q", f.Name, string(f.Type))
			if f.Doc != "" {
				fmt.Fprintf(bw, "\t// %s", f.Doc)
			}
			bw.WriteString("\n")
		}
		bw.WriteString("\t}\n")
	}
	bw.WriteString("}\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("event: write resource: %w", err)
	}
	return nil
}
