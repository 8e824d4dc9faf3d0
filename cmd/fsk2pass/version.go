package main

import (
	"runtime"
	"text/template"
)

var versionFuncs = template.FuncMap{
	"gitCommit": func() string { return GitCommit },
	"buildDate": func() string { return BuildDate },
	"goVersion": runtime.Version,
	"osArch":    func() string { return runtime.GOOS + "/" + runtime.GOARCH },
}
