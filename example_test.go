package protoenc_test

import (
	"encoding/hex"
	"fmt"
	"log"

	protoenc "github.com/Totktonada/protoenc"
)

// Encode a flat message with scalar fields.
func Example() {
	msg, err := protoenc.Message("test", map[string]protoenc.Field{
		"val": {Type: "int32", ID: 1},
	})
	if err != nil {
		log.Fatal(err)
	}
	proto, err := protoenc.NewProtocol(msg)
	if err != nil {
		log.Fatal(err)
	}

	b, err := proto.Encode("test", map[string]interface{}{"val": 1540})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(hex.EncodeToString(b))
	// Output: 08840c
}

// Nested messages are plain nested maps; enums can be referenced by
// symbolic name or by number.
func Example_nested() {
	user, err := protoenc.Message("User", map[string]protoenc.Field{
		"id":      {Type: "int64", ID: 1},
		"status":  {Type: "Status", ID: 2},
		"address": {Type: "Address", ID: 3},
	})
	if err != nil {
		log.Fatal(err)
	}
	address, err := protoenc.Message("Address", map[string]protoenc.Field{
		"city": {Type: "string", ID: 1},
	})
	if err != nil {
		log.Fatal(err)
	}
	status, err := protoenc.Enum("Status", map[string]int64{
		"INACTIVE": 0,
		"ACTIVE":   1,
	})
	if err != nil {
		log.Fatal(err)
	}

	// Definition order does not matter: User references Address and
	// Status freely.
	proto, err := protoenc.NewProtocol(user, address, status)
	if err != nil {
		log.Fatal(err)
	}

	b, err := proto.Encode("User", map[string]interface{}{
		"id":      7,
		"status":  "ACTIVE",
		"address": map[string]interface{}{"city": "Kyiv"},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(hex.EncodeToString(b))
	// Output: 080710011a060a044b796976
}

// Repeated scalar fields are packed into a single LEN frame.
func Example_repeated() {
	msg, err := protoenc.Message("test", map[string]protoenc.Field{
		"val": {Type: "repeated int32", ID: 1},
	})
	if err != nil {
		log.Fatal(err)
	}
	proto, err := protoenc.NewProtocol(msg)
	if err != nil {
		log.Fatal(err)
	}

	b, err := proto.Encode("test", map[string]interface{}{
		"val": []int32{1, 2, 3, 4},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(hex.EncodeToString(b))
	// Output: 0a0401020304
}
