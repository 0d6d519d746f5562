package css

// Declaration is a single `property: value` pair found anywhere in a
// sheet, in document order. ValueStart and ValueEnd are byte offsets of
// the value text in the parsed source, so Value == source[ValueStart:ValueEnd]
// and the declaration can be rewritten in place without disturbing
// surrounding text.
type Declaration struct {
	Property   string
	Value      string
	ValueStart uint
	ValueEnd   uint
}

// Sheet contains every declaration of one CSS source, nested rules
// included, in document order.
type Sheet struct {
	Declarations []Declaration
}
