package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	protoenc "github.com/Totktonada/protoenc"
)

func main() {
	// Build the schema programmatically: an enum, a nested message and a
	// top-level message referencing both. Definition order is free.
	user, err := protoenc.Message("User", map[string]protoenc.Field{
		"id":       {Type: "int64", ID: 1},
		"name":     {Type: "string", ID: 2},
		"active":   {Type: "bool", ID: 3},
		"status":   {Type: "Status", ID: 4},
		"scores":   {Type: "repeated int32", ID: 5},
		"tags":     {Type: "repeated string", ID: 6},
		"address":  {Type: "Address", ID: 7},
		"balance":  {Type: "double", ID: 8},
		"checksum": {Type: "fixed64", ID: 9},
	})
	if err != nil {
		log.Fatalf("Failed to build User: %v", err)
	}

	address, err := protoenc.Message("Address", map[string]protoenc.Field{
		"city": {Type: "string", ID: 1},
		"zip":  {Type: "uint32", ID: 2},
	})
	if err != nil {
		log.Fatalf("Failed to build Address: %v", err)
	}

	status, err := protoenc.Enum("Status", map[string]int64{
		"USER_UNKNOWN": 0,
		"USER_ACTIVE":  1,
		"USER_BANNED":  2,
	})
	if err != nil {
		log.Fatalf("Failed to build Status: %v", err)
	}

	proto, err := protoenc.NewProtocol(user, address, status)
	if err != nil {
		log.Fatalf("Failed to build protocol: %v", err)
	}

	fmt.Println("protoenc sample app")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Messages: %v\n", proto.ListMessages())
	fmt.Printf("Enums:    %v\n", proto.ListEnums())

	userData := map[string]interface{}{
		"id":       int64(42),
		"name":     "John Doe",
		"active":   true,
		"status":   "USER_ACTIVE",
		"scores":   []int32{95, 87, 72},
		"tags":     []string{"admin", "beta"},
		"balance":  13.37,
		"checksum": uint64(0xDEADBEEF),
		"address": map[string]interface{}{
			"city": "Springfield",
			"zip":  uint32(49007),
		},
	}

	b, err := proto.Encode("User", userData)
	if err != nil {
		log.Fatalf("Encode failed: %v", err)
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Encoded %d bytes:\n%s\n", len(b), hex.EncodeToString(b))

	// Encoding is strict: a fractional value for an integer field is an
	// error, not a silent truncation.
	_, err = proto.Encode("User", map[string]interface{}{"id": 1.5})
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Strictness demo: %v\n", err)
}
