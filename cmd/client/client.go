package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"time"
)

func main() {
	var (
		addr = flag.String("addr", "http://localhost:8080", "counter service address")
	)
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}

	for {
		MakeCall(client, *addr)
	}
}

func MakeCall(c *http.Client, addr string) {
	defer func(begin time.Time) {
		fmt.Println("took > ", time.Since(begin))
	}(time.Now())

	resp, err := c.Post(addr+"/", "text/plain", nil)
	if err != nil {
		log.Fatalf("could not call counter service: %s", err)
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("could not read response: %s", err)
	}

	fmt.Println(string(body))
}
