package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/runauth/internal/common"
	"golang.org/x/term"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

// readPassword reads from the terminal without echo. Tests replace it.
var readPassword = term.ReadPassword

// GetSimpleText shows prompt on its own line followed by "> " and returns
// the trimmed answer. A final line without a newline is accepted.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s\n> ", prompt); err != nil {
		return "", err
	}

	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword reads a password with echo off. The caller owns the returned
// slice and should wipe it with common.WipeByteArray.
func GetPassword(w io.Writer) ([]byte, error) {
	return promptPassword(w, "Enter password: ")
}

// GetNewPassword asks for a password twice and fails with
// ErrPasswordMismatch when the two answers differ.
func GetNewPassword(w io.Writer) ([]byte, error) {
	first, err := promptPassword(w, "Choose password: ")
	if err != nil {
		return nil, err
	}

	second, err := promptPassword(w, "Repeat password: ")
	if err != nil {
		common.WipeByteArray(first)
		return nil, err
	}
	defer common.WipeByteArray(second)

	if !bytes.Equal(first, second) {
		common.WipeByteArray(first)
		return nil, ErrPasswordMismatch
	}
	return first, nil
}

func promptPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
