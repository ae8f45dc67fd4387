package ucapp

import (
	"errors"

	"github.com/ezrec/retroasm/translate"
)

var f = translate.From

var (
	ErrDecode         = errors.New(f("decode"))
	ErrOpcodeMissing  = errors.New(f("opcode missing"))
	ErrValueMissing   = errors.New(f("value missing"))
	ErrExtraArgs      = errors.New(f("excessive arguments"))
	ErrOpcodeInvalid  = errors.New(f("opcode invalid"))
	ErrTargetInvalid  = errors.New(f("target invalid"))
	ErrChannelInvalid = errors.New(f("channel invalid"))
	ErrAwaitInvalid   = errors.New(f("await requires a writable register"))
)
