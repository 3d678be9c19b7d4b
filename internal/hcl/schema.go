package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Queues []*queueBlock `hcl:"queue,block"`
	Passes []*passBlock  `hcl:"pass,block"`
	Remain hcl.Body      `hcl:",remain"`
}

type queueBlock struct {
	Name  string `hcl:"name,label"`
	Index int    `hcl:"index"`
}

type passBlock struct {
	Name   string             `hcl:"name,label"`
	Queue  hcl.Expression     `hcl:"queue,optional"`
	Flags  []string           `hcl:"flags,optional"`
	Reads  []*dependencyBlock `hcl:"read,block"`
	Writes []*dependencyBlock `hcl:"write,block"`
}

type dependencyBlock struct {
	Resource string `hcl:"resource,label"`
	AliasOf  string `hcl:"alias_of,optional"`
	First    int    `hcl:"first,optional"`
	Count    int    `hcl:"count,optional"`
}
