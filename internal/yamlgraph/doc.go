// Package yamlgraph loads render graph descriptions written in YAML into the
// format-agnostic config.Model. It accepts the same content as the HCL front
// end:
//
//	queues:
//	  - {name: graphics, index: 0}
//	  - {name: compute, index: 1}
//	passes:
//	  - name: SSAO
//	    queue: compute
//	    reads: [{resource: Depth}]
//	    writes: [{resource: AO}]
//
// A pass's queue is either a queue name or a queue index.
package yamlgraph
