package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())
	assert.False(s.Full())
	assert.False(s.CanBreak())
	assert.False(s.CanContinue())

	assert.NoError(s.Push(&Block{Kind: BLOCK_SWITCH}))
	assert.False(s.Empty())
	assert.Equal(1, s.Depth())
	assert.True(s.CanBreak())
	assert.False(s.CanContinue())

	assert.NoError(s.Push(&Block{Kind: BLOCK_REPEAT}))
	assert.True(s.CanContinue())
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	loop := &Block{Kind: BLOCK_WHILE}
	scope := &Block{Kind: BLOCK_SCOPE}
	s.Push(loop)
	s.Push(scope)

	block, ok := s.Pop()
	assert.True(ok)
	assert.Equal(scope, block)
	assert.True(s.CanBreak())

	block, ok = s.Pop()
	assert.True(ok)
	assert.Equal(loop, block)
	assert.False(s.CanBreak())
	assert.False(s.CanContinue())

	block, ok = s.Pop()
	assert.False(ok)
	assert.Nil(block)
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	_, ok := s.Peek()
	assert.False(ok)

	top := &Block{Kind: BLOCK_ENUM}
	s.Push(&Block{Kind: BLOCK_SCOPE})
	s.Push(top)

	block, ok := s.Peek()
	assert.True(ok)
	assert.Equal(top, block)
	assert.Equal(2, s.Depth())
}

func TestStack_Full(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	for range STACK_LIMIT {
		assert.NoError(s.Push(&Block{Kind: BLOCK_FOR_NEXT}))
	}
	assert.True(s.Full())
	assert.ErrorIs(s.Push(&Block{Kind: BLOCK_SCOPE}), ErrStackFull)

	s.Reset()
	assert.True(s.Empty())
	assert.False(s.CanBreak())
}

func TestKind(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		kind          Kind
		open          string
		close         string
		allowBreak    bool
		allowContinue bool
	}){
		{BLOCK_SCOPE, ".block", ".endblock", false, false},
		{BLOCK_CONDITIONAL_NDEF, ".ifndef", ".endif", false, false},
		{BLOCK_FOR_EACH, ".foreach", ".next", true, true},
		{BLOCK_SWITCH, ".switch", ".endswitch", true, false},
		{BLOCK_DO_WHILE, ".do", ".whiletrue", true, true},
		{BLOCK_ENUM, ".enum", ".endenum", false, false},
	}

	for _, entry := range table {
		assert.Equal(entry.open, entry.kind.Open(), entry.kind)
		assert.Equal(entry.close, entry.kind.Close(), entry.kind)
		assert.Equal(entry.allowBreak, entry.kind.AllowBreak(), entry.kind)
		assert.Equal(entry.allowContinue, entry.kind.AllowContinue(), entry.kind)
	}

	assert.ElementsMatch([]string{".if", ".ifdef", ".ifndef"}, BLOCK_CONDITIONAL.Openers())
	assert.ElementsMatch([]string{".for", ".foreach"}, BLOCK_FOR_NEXT.Openers())
	assert.True(BLOCK_CONDITIONAL.Continues(".elseifndef"))
	assert.True(BLOCK_SWITCH.Continues(".default"))
	assert.False(BLOCK_SWITCH.Continues(".else"))
}
