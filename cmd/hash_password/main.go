package main

import (
	"fmt"
	"os"

	"tokoikan/pkg/password"
)

// Prints a bcrypt hash for seeding the admin table by hand.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: hash_password <password>")
		os.Exit(2)
	}
	h, err := password.Hash(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(h))
}
