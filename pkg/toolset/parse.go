package toolset

import (
	"fmt"
	"strings"
)

// ParseRequest parses one version-string token into a ToolRequest, mirroring
// jdx/mise's ToolRequest::new grammar (original_source/src/toolset/tool_request.rs):
//
//	"ref-<x>"/"ref:<x>", "tag-<x>"/"tag:<x>", "branch-...", "rev-..." -> Ref
//	"prefix:<p>"                                                      -> Prefix
//	"path:<p>"                                                        -> Path
//	"sub-<delta>:<orig>"                                              -> Sub
//	"system"                                                          -> System
//	anything else                                                     -> Version
func ParseRequest(ba BackendId, s string, opts Options, src ToolSource) (ToolRequest, error) {
	normalized := s
	if refType, rest, ok := cutRefDash(s); ok {
		normalized = refType + ":" + rest
	}

	if kind, rest, ok := strings.Cut(normalized, ":"); ok {
		switch {
		case isRefType(kind):
			return NewRefRequest(ba, RefType(kind), rest, opts, src), nil
		case kind == "prefix":
			return NewPrefixRequest(ba, rest, opts, src), nil
		case kind == "path":
			return NewPathRequest(ba, rest, opts, src), nil
		case strings.HasPrefix(kind, "sub-"):
			sub := strings.TrimPrefix(kind, "sub-")
			return NewSubRequest(ba, sub, rest, opts, src), nil
		default:
			return ToolRequest{}, fmt.Errorf("invalid tool version request: %s", s)
		}
	}

	if normalized == "system" {
		return NewSystemRequest(ba, opts, src), nil
	}
	return NewVersionRequest(ba, normalized, opts, src), nil
}

func isRefType(s string) bool {
	switch RefType(s) {
	case RefTypeRef, RefTypeTag, RefTypeBranch, RefTypeRev:
		return true
	default:
		return false
	}
}

// cutRefDash recognizes the dash-separated shorthand ("ref-abc123",
// "tag-v1.0", "branch-main", "rev-deadbeef") and splits it into its
// ref-type/rest parts, mirroring the Rust source's pre-normalization step.
func cutRefDash(s string) (refType, rest string, ok bool) {
	kind, rest, found := strings.Cut(s, "-")
	if !found || !isRefType(kind) {
		return "", "", false
	}
	return kind, rest, true
}
