package asm

const (
	STACK_LIMIT = 64 // Maximum block nesting depth
)

// Stack is the stack of open blocks.
type Stack struct {
	Data []*Block

	breaks    int // Open blocks that .break may leave.
	continues int // Open blocks that .continue may restart.
}

func (s *Stack) Push(block *Block) (err error) {
	if s.Full() {
		err = ErrStackFull
		return
	}
	s.Data = append(s.Data, block)
	if block.Kind.AllowBreak() {
		s.breaks++
	}
	if block.Kind.AllowContinue() {
		s.continues++
	}
	return
}

func (s *Stack) Pop() (block *Block, ok bool) {
	block, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
		if block.Kind.AllowBreak() {
			s.breaks--
		}
		if block.Kind.AllowContinue() {
			s.continues--
		}
	}
	return
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Full() bool {
	return len(s.Data) == STACK_LIMIT
}

func (s *Stack) Peek() (block *Block, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

// Depth returns the number of open blocks.
func (s *Stack) Depth() int {
	return len(s.Data)
}

// CanBreak returns true if an open block accepts .break.
func (s *Stack) CanBreak() bool {
	return s.breaks > 0
}

// CanContinue returns true if an open block accepts .continue.
func (s *Stack) CanContinue() bool {
	return s.continues > 0
}

func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
	s.breaks = 0
	s.continues = 0
}
