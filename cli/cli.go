package cli

import (
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"jsonflat/ds"
	"jsonflat/fson"
	"jsonflat/fson/fflat"
)

type (
	Args struct {
		Flatten *FlattenCmd `arg:"subcommand:flatten"`
		Table   *TableCmd   `arg:"subcommand:table"`
	}
	FlattenCmd struct {
		From       string `arg:"required" help:"path to source file" placeholder:"input.json"`
		To         string `help:"path to destination file; stdout when omitted" placeholder:"out.tsv"`
		Force      bool   `help:"overwrite the destination file"`
		MaxDepth   int    `arg:"--max-depth" default:"10" help:"nesting level past which objects stay unexpanded"`
		StartAt    string `arg:"--start-at" help:"pointer of the value to parse" placeholder:"/items"`
		KeepArrays bool   `arg:"--keep-arrays" help:"keep arrays as verbatim text instead of expanding them"`
	}
	TableCmd struct {
		From     string   `arg:"required" help:"path to source file" placeholder:"input.json"`
		To       string   `help:"path to destination file; stdout when omitted" placeholder:"out.tsv"`
		Force    bool     `help:"overwrite the destination file"`
		MaxDepth int      `arg:"--max-depth" default:"10" help:"nesting level past which objects stay unexpanded"`
		StartAt  string   `arg:"--start-at" help:"pointer of the array to parse" placeholder:"/items"`
		NonNull  []string `arg:"--non-null,separate" help:"drop rows where the value at this pointer is null or missing"`
	}
)

func (Args) Description() string {
	des := strings.Join(
		[]string{
			"A CLI utility to flatten JSON documents into (pointer, value) lines,",
			"and to lay JSON arrays out as tables in the command line.",
		},
		"\n",
	)
	des += "\n"
	return des
}

func CheckExistence(path string) bool {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false
	}
	return err == nil
}

func readSource(from string) ([]byte, bool) {
	if !CheckExistence(from) {
		println("Source file does not exist!")
		return nil, false
	}
	bs, err := ioutil.ReadFile(from)
	if err != nil {
		println("Error happened reading file")
		return nil, false
	}
	return bs, true
}

func writeResult(to string, output string, force bool) {
	if to == "" {
		print(output)
		return
	}
	if CheckExistence(to) && !force {
		println("Destination file existed. Please type the command again with --force to allow overwriting!")
		return
	}
	if err := ioutil.WriteFile(to, []byte(output), 0644); err != nil {
		println("Error happened writing to file at: " + to)
		return
	}
	println("Done. Please check your result file at: " + to)
}

func renderValue(entry fflat.FlatJsonValue) string {
	if entry.Value == nil {
		if entry.Pointer.ValueType == fflat.ValueTypeArray {
			return "[" + strconv.Itoa(entry.Pointer.ArrayLen) + " elements]"
		}
		return "null"
	}
	return *entry.Value
}

func StartFlattening(cmd FlattenCmd) {
	bs, ok := readSource(cmd.From)
	if !ok {
		return
	}
	result, err := fson.Parse(
		bs,
		fflat.ParseOptions{
			ParseArray:   !cmd.KeepArrays,
			MaxDepth:     cmd.MaxDepth,
			StartParseAt: cmd.StartAt,
		},
	)
	if err != nil {
		println("Error happened parsing the file: " + err.Error())
		return
	}
	lines := lo.Map(
		result.Json,
		func(entry fflat.FlatJsonValue, _ int) string {
			return ds.ConcatStrings(
				entry.Pointer.Pointer,
				"\t", string(entry.Pointer.ValueType),
				"\t", strconv.Itoa(entry.Pointer.Depth),
				"\t", renderValue(entry),
				"\n",
			)
		},
	)
	writeResult(cmd.To, strings.Join(lines, ""), cmd.Force)
}

func StartTabling(cmd TableCmd) {
	bs, ok := readSource(cmd.From)
	if !ok {
		return
	}
	result, err := fson.Parse(
		bs,
		fflat.ParseOptions{
			ParseArray:   true,
			MaxDepth:     cmd.MaxDepth,
			StartParseAt: cmd.StartAt,
		},
	)
	if err != nil {
		println("Error happened parsing the file: " + err.Error())
		return
	}
	prefix := result.StartedParsingAt
	rows, columns, err := fson.AsArray(result)
	if err != nil {
		println("Error happened laying the document out as a table: " + err.Error())
		return
	}
	rows = fson.FilterNonNullColumn(rows, prefix, cmd.NonNull)

	header := fson.PseudoColumnIndex
	for _, column := range columns {
		header += "\t" + column.Name
	}
	lines := lo.Map(
		rows,
		func(row fson.ArrayRow, _ int) string {
			cells := lo.Map(
				columns,
				func(column fson.Column, _ int) string {
					target := ds.ConcatStrings(prefix, "/", strconv.Itoa(row.Index), column.Name)
					entry, found := lo.Find(
						row.Entries,
						func(entry fflat.FlatJsonValue) bool {
							return entry.Pointer.Pointer == target
						},
					)
					if !found {
						return ""
					}
					return renderValue(entry)
				},
			)
			return strconv.Itoa(row.Index) + "\t" + strings.Join(cells, "\t") + "\n"
		},
	)
	writeResult(cmd.To, header+"\n"+strings.Join(lines, ""), cmd.Force)
}

func Start() {
	args := Args{}
	parser := arg.MustParse(&args)

	switch {
	case args.Flatten != nil:
		StartFlattening(*args.Flatten)
	case args.Table != nil:
		StartTabling(*args.Table)
	default:
		parser.WriteHelp(os.Stdout)
	}
}
