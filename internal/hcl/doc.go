// Package hcl loads render graph descriptions written in HCL into the
// format-agnostic config.Model.
//
//	queue "graphics" { index = 0 }
//	queue "compute"  { index = 1 }
//
//	pass "SSAO" {
//	  queue = queue.compute
//	  read "Depth" {}
//	  write "AO" {}
//	}
//
// A pass's queue is an expression evaluated with every declared queue
// available as queue.<name>; a literal queue name or index works too.
package hcl
