package util

import (
	"bufio"
	"errors"
	"io/ioutil"
	"os"
	"time"
)

// ReadSource reads FlowScript source code from file or stdin.
// If the Options structure holds a path for Src the file is opened and read. Otherwise the
// function waits a short period for input on stdin; if nothing arrives in time it returns an
// error rather than blocking the compiler forever on an interactive terminal with no pipe.
func ReadSource(opt Options) (string, error) {
	if len(opt.Src) > 0 {
		b, err := ioutil.ReadFile(opt.Src)
		return string(b), err
	}

	c := make(chan string)
	cerr := make(chan error)

	go func(c chan string, cerr chan error) {
		defer close(c)
		defer close(cerr)
		reader := bufio.NewReader(os.Stdin)
		text, err := reader.ReadString(0)
		if err == nil || len(text) > 0 {
			c <- text
		} else {
			cerr <- err
		}
	}(c, cerr)

	select {
	case <-time.After(500 * time.Millisecond):
		return "", errors.New("expected input from stdin, got none")
	case s := <-c:
		return s, nil
	case err := <-cerr:
		return "", err
	}
}
