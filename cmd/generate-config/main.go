package main

import (
	"fmt"
	"os"

	"github.com/matrixorigin/maskedarray/pkg/config"
)

func main() {
	argCnt := len(os.Args)
	if argCnt > 2 {
		fmt.Printf("usage: %s [outputFile]\n", os.Args[0])
		return
	}

	out := os.Stdout
	if argCnt == 2 {
		file, err := os.Create(os.Args[1])
		if err != nil {
			fmt.Printf("create %s failed. error:%v \n", os.Args[1], err)
			os.Exit(-1)
		}
		defer file.Close()
		out = file
	}

	if err := config.NewConfig().Encode(out); err != nil {
		fmt.Printf("generate configuration failed. error:%v \n", err)
		os.Exit(-1)
	}
}
