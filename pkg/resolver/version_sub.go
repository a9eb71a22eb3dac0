package resolver

import (
	"fmt"
	"strconv"
	"strings"
)

// chunkify splits a version string into '.'-delimited chunks, mirroring
// jdx/mise's Version chunking (original_source/src/toolset/tool_request.rs)
// closely enough to support version_sub and check_semver_bump.
func chunkify(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ".")
}

// VersionSub implements §4.2 / §8's version_sub: given a base version and a
// subtrahend ("sub-2:20.2.3" => keep as many leading components of the base
// as the subtrahend has, then subtract componentwise: "18.2.3" sub "2" => "16";
// "18.2.3" sub "0.1" => "18.1").
//
// Per §8's edge case: if sub has more components than orig, orig's copy is
// truncated first (it already is, since we only ever iterate len(subChunks)
// positions against a possibly-shorter orig — callers should ensure
// len(components(orig)) >= len(components(sub)) as the invariant requires).
func VersionSub(orig, sub string) (string, error) {
	origChunks := chunkify(orig)
	subChunks := chunkify(sub)

	if len(origChunks) > len(subChunks) {
		origChunks = origChunks[:len(subChunks)]
	}

	result := make([]string, len(origChunks))
	for i, oc := range origChunks {
		on, err := strconv.Atoi(oc)
		if err != nil {
			return "", fmt.Errorf("version_sub: non-numeric component %q in %q", oc, orig)
		}
		var sn int
		if i < len(subChunks) {
			sn, err = strconv.Atoi(subChunks[i])
			if err != nil {
				return "", fmt.Errorf("version_sub: non-numeric component %q in %q", subChunks[i], sub)
			}
		}
		result[i] = strconv.Itoa(on - sn)
	}
	return strings.Join(result, "."), nil
}

// CheckSemverBump implements §8's check_semver_bump: if old parses as a
// prefix of new, returns ("", false); otherwise returns the prefix of new
// with the same component count as old. old == "latest" always returns
// ("latest", true). An "prefix:"-tagged old spec is unwrapped and retried
// (mirrors jdx/mise's prefix-request handling in outdated_info.rs).
func CheckSemverBump(old, new string) (string, bool) {
	if old == "latest" {
		return "latest", true
	}
	if rest, ok := strings.CutPrefix(old, "prefix:"); ok {
		return CheckSemverBump(rest, new)
	}

	oldChunks := chunkify(old)
	newChunks := chunkify(new)
	if len(oldChunks) == 0 || len(newChunks) == 0 {
		return "", false
	}

	n := len(oldChunks)
	if n > len(newChunks) {
		n = len(newChunks)
	}
	bumpChunks := newChunks[:n]
	bump := strings.Join(bumpChunks, ".")
	if bump == strings.Join(oldChunks, ".") {
		return "", false // old is already a prefix of new: no bump to report
	}
	return bump, true
}
