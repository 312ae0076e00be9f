package core

import (
	"errors"
	"fmt"
	"strconv"
)

// ObjectStream is a decoded /Type /ObjStm stream (PDF 1.5+). Its data starts
// with N pairs of "objnum offset" followed, at /First, by the objects.
type ObjectStream struct {
	first   int
	nums    []int
	offsets []int
	data    []byte
	cache   map[int]Object
}

// NewObjectStream decodes an object stream and reads its header
func NewObjectStream(stream *Stream) (*ObjectStream, error) {
	if stream == nil {
		return nil, errors.New("stream is nil")
	}
	if t, _ := stream.Dict.GetName("Type"); t != "ObjStm" {
		return nil, fmt.Errorf("stream type %q is not ObjStm", t)
	}
	n, ok := stream.Dict.GetInt("N")
	if !ok || n < 0 {
		return nil, errors.New("object stream missing /N")
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, errors.New("object stream missing /First")
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("object stream: %w", err)
	}
	if int(first) > len(data) {
		return nil, fmt.Errorf("/First %d beyond decoded length %d", first, len(data))
	}

	os := &ObjectStream{first: int(first), data: data, cache: map[int]Object{}}
	lex := NewLexer(data[:first])
	for i := 0; i < int(n); i++ {
		numTok, _ := lex.NextToken()
		offTok, _ := lex.NextToken()
		if numTok.Type != TokenInteger || offTok.Type != TokenInteger {
			return nil, fmt.Errorf("object stream header entry %d is malformed", i)
		}
		num, _ := strconv.Atoi(string(numTok.Value))
		off, _ := strconv.Atoi(string(offTok.Value))
		os.nums = append(os.nums, num)
		os.offsets = append(os.offsets, off)
	}
	return os, nil
}

// N returns the number of objects in the stream
func (os *ObjectStream) N() int { return len(os.nums) }

// ObjectNumbers returns the object numbers in header order
func (os *ObjectStream) ObjectNumbers() []int {
	return append([]int(nil), os.nums...)
}

// GetObjectByIndex parses the index-th object and returns it with its number
func (os *ObjectStream) GetObjectByIndex(index int) (Object, int, error) {
	if index < 0 || index >= len(os.nums) {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", index, len(os.nums))
	}
	if obj, ok := os.cache[index]; ok {
		return obj, os.nums[index], nil
	}

	start := os.first + os.offsets[index]
	if start >= len(os.data) {
		return nil, 0, fmt.Errorf("object offset %d beyond decoded length %d", start, len(os.data))
	}
	p := NewParser(os.data)
	p.Seek(start)
	obj, err := p.ParseObject()
	if err != nil {
		return nil, 0, fmt.Errorf("object at index %d: %w", index, err)
	}
	os.cache[index] = obj
	return obj, os.nums[index], nil
}

// GetObjectByNumber finds an object by number. The xref index is tried
// first and the header is searched when it does not match.
func (os *ObjectStream) GetObjectByNumber(objNum, hint int) (Object, error) {
	if hint >= 0 && hint < len(os.nums) && os.nums[hint] == objNum {
		obj, _, err := os.GetObjectByIndex(hint)
		return obj, err
	}
	for i, n := range os.nums {
		if n == objNum {
			obj, _, err := os.GetObjectByIndex(i)
			return obj, err
		}
	}
	return nil, fmt.Errorf("object %d not found in object stream", objNum)
}
