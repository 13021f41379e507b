// Package status defines the closed enumeration of native status codes
// returned by the decoding engine.
//
// Zero means success, negative values are failures. The set mirrors the
// engine's return-code table; a code outside the table is represented by
// Unknown rather than causing a panic.
package status

import "fmt"

// Status is a native engine return code.
type Status int32

const (
	Success             Status = 0
	EndOfFile           Status = -1
	InternalError       Status = -2
	BufferTooSmall      Status = -3
	NotImplemented      Status = -4
	EndMarkerNotFound   Status = -5
	ArrayTooSmall       Status = -6
	FileNotFound        Status = -7
	CodeNotFoundInTable Status = -8
	WrongArraySize      Status = -9
	NotFound            Status = -10
	IOProblem           Status = -11
	InvalidMessage      Status = -12
	DecodingError       Status = -13
	EncodingError       Status = -14
	NoMoreInSet         Status = -15
	GeocalculusProblem  Status = -16
	OutOfMemory         Status = -17
	ReadOnly            Status = -18
	InvalidArgument     Status = -19
	NullHandle          Status = -20
	InvalidSection      Status = -21
	CannotBeMissing     Status = -22
	WrongLength         Status = -23
	InvalidType         Status = -24
	WrongStep           Status = -25
	WrongStepUnit       Status = -26
	InvalidFile         Status = -27
	InvalidGrid         Status = -28
	InvalidIndex        Status = -29
	InvalidIterator     Status = -30
	InvalidKeysIterator Status = -31
	InvalidNearest      Status = -32
	InvalidOrderBy      Status = -33
	MissingKey          Status = -34
	OutOfArea           Status = -35
	ConceptNoMatch      Status = -36
	HashArrayNoMatch    Status = -37
	NoDefinitions       Status = -38
	WrongType           Status = -39
	End                 Status = -40
	NoValues            Status = -41
	WrongGrid           Status = -42
	EndOfIndex          Status = -43
	NullIndex           Status = -44
	PrematureEndOfFile  Status = -45
	InternalArraySmall  Status = -46
	MessageTooLarge     Status = -47
	ConstantField       Status = -48
	SwitchNoMatch       Status = -49
	Underflow           Status = -50
	MessageMalformed    Status = -51
	CorruptedIndex      Status = -52
	InvalidBitsPerValue Status = -53
	DifferentEdition    Status = -54
	ValueDifferent      Status = -55
	InvalidKeyValue     Status = -56
	StringTooSmall      Status = -57
	WrongConversion     Status = -58
	NullPointer         Status = -60
	OutOfRange          Status = -65
	WrongBitmapSize     Status = -66

	// Unknown represents a code outside the table. It never appears on the
	// wire; FromCode maps unrecognized values to it.
	Unknown Status = -128
)

var messages = map[Status]string{
	Success:             "no error",
	EndOfFile:           "end of resource reached",
	InternalError:       "internal error",
	BufferTooSmall:      "passed buffer is too small",
	NotImplemented:      "function not yet implemented",
	EndMarkerNotFound:   "missing 7777 at end of message",
	ArrayTooSmall:       "passed array is too small",
	FileNotFound:        "file not found",
	CodeNotFoundInTable: "code not found in code table",
	WrongArraySize:      "array size mismatch",
	NotFound:            "key/value not found",
	IOProblem:           "input output problem",
	InvalidMessage:      "message invalid",
	DecodingError:       "decoding invalid",
	EncodingError:       "encoding invalid",
	NoMoreInSet:         "no more in set",
	GeocalculusProblem:  "problem with calculation of geographic attributes",
	OutOfMemory:         "memory allocation error",
	ReadOnly:            "value is read only",
	InvalidArgument:     "invalid argument",
	NullHandle:          "null handle",
	InvalidSection:      "invalid section number",
	CannotBeMissing:     "value cannot be missing",
	WrongLength:         "wrong message length",
	InvalidType:         "invalid key type",
	WrongStep:           "unable to set step",
	WrongStepUnit:       "wrong units for step",
	InvalidFile:         "invalid file id",
	InvalidGrid:         "invalid grid id",
	InvalidIndex:        "invalid index id",
	InvalidIterator:     "invalid iterator id",
	InvalidKeysIterator: "invalid keys iterator id",
	InvalidNearest:      "invalid nearest id",
	InvalidOrderBy:      "invalid order by",
	MissingKey:          "missing a key from the fieldset",
	OutOfArea:           "the point is out of the grid area",
	ConceptNoMatch:      "concept no match",
	HashArrayNoMatch:    "hash array no match",
	NoDefinitions:       "definitions files not found",
	WrongType:           "wrong type while packing",
	End:                 "end of resource",
	NoValues:            "unable to code a field without values",
	WrongGrid:           "grid description is wrong or inconsistent",
	EndOfIndex:          "end of index reached",
	NullIndex:           "null index",
	PrematureEndOfFile:  "end of resource reached when reading message",
	InternalArraySmall:  "an internal array is too small",
	MessageTooLarge:     "message is too large",
	ConstantField:       "constant field",
	SwitchNoMatch:       "switch unable to find a matching case",
	Underflow:           "underflow",
	MessageMalformed:    "message malformed",
	CorruptedIndex:      "index is corrupted",
	InvalidBitsPerValue: "invalid number of bits per value",
	DifferentEdition:    "edition of two messages is different",
	ValueDifferent:      "value is different",
	InvalidKeyValue:     "invalid key value",
	StringTooSmall:      "string is smaller than requested",
	WrongConversion:     "wrong type conversion",
	NullPointer:         "null pointer",
	OutOfRange:          "value out of coding range",
	WrongBitmapSize:     "size of bitmap is incorrect",
	Unknown:             "unrecognized status code",
}

// FromCode maps a raw engine return code to a Status. Unrecognized codes map
// to Unknown with ok=false; they are reported as a distinct error value, not
// a panic.
func FromCode(code int32) (Status, bool) {
	st := Status(code)
	if _, known := messages[st]; known {
		return st, true
	}

	return Unknown, false
}

// IsFailure reports whether the status denotes a failed call.
func (s Status) IsFailure() bool {
	return s != Success
}

func (s Status) String() string {
	if msg, ok := messages[s]; ok {
		return msg
	}

	return fmt.Sprintf("unrecognized status code %d", int32(s))
}

// Error makes Status usable as an error value carrying the native code.
func (s Status) Error() string {
	return fmt.Sprintf("engine returned a non-zero code %d: %s", int32(s), s.String())
}
