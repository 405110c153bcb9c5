package confstr_test

import (
	"errors"
	"fmt"

	"github.com/ardnew/confstr/confstr"
)

func ExampleParse() {
	c, err := confstr.Parse("http::addr=localhost:9000;path=/a;;b;")
	if err != nil {
		panic(err)
	}

	fmt.Println(c.Service())

	for k, v := range c.All() {
		fmt.Printf("%s=%s\n", k, v)
	}

	// Output:
	// http
	// addr=localhost:9000
	// path=/a;b
}

func ExampleParse_error() {
	_, err := confstr.Parse("http::host=localhost;port9000;")
	fmt.Println(err)
	fmt.Println(errors.Is(err, confstr.ErrBadSeparator))

	// Output:
	// bad separator, expected '=' got ';' at position 29
	// true
}

func ExampleConfStr_Encode() {
	c := confstr.New("tcp", map[string]string{"port": "9000", "hosts": "a;b"})
	fmt.Println(c.Encode())

	// Output:
	// tcp::hosts=a;;b;port=9000;
}
