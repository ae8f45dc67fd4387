package main

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/retroasm/arch"
	"github.com/ezrec/retroasm/asm"
	"github.com/ezrec/retroasm/symbol"
)

func TestDefine(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text  string
		name  string
		value symbol.Value
	}){
		{"DEBUG", "DEBUG", int64(1)},
		{"BASE=$c000", "BASE", int64(0xc000)},
		{"SIZE=4*16", "SIZE", int64(64)},
		{"NAME=hello", "NAME", "hello"},
	}

	target, err := arch.New("m6502")
	assert.NoError(err)

	for _, entry := range table {
		assembler := asm.New(target, asm.DefaultOptions())
		assert.NoError(define(assembler, entry.text), entry.text)

		sym, ok := assembler.Table.Resolve(entry.name)
		if assert.True(ok, entry.text) {
			assert.Equal(entry.value, sym.Value, entry.text)
			assert.True(assembler.Table.DefinedThisPass(entry.name), entry.text)
		}
	}
}

func TestSetFlags(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(setFlags(map[string]string{"v": "0"}))
	assert.Equal("0", flag.Lookup("v").Value.String())

	assert.Error(setFlags(map[string]string{"no-such-flag": "1"}))
	assert.Error(setFlags(map[string]string{"v": "many"}))
}

func TestCreate(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "out.bin")
	err := create(path, func(w io.Writer) error {
		_, err := w.Write([]byte{1, 2, 3})
		return err
	})
	assert.NoError(err)

	data, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Equal([]byte{1, 2, 3}, data)
}

func TestDump(t *testing.T) {
	assert := assert.New(t)

	table := symbol.NewTable(true)
	table.StartPass()
	table.Define("start", symbol.KIND_LABEL, int64(0x200), 0)
	table.Push("inner")
	table.Define("count", symbol.KIND_VARIABLE, int64(3), 1)

	var buf bytes.Buffer
	dump(&buf, table)
	assert.Contains(buf.String(), `"start"`)
	assert.Contains(buf.String(), `"inner.count"`)
}
