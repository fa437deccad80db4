package memfs

import (
	"strings"
	"time"
)

// AttributeView names one of the built-in attribute namespaces a File
// exposes. Reads and writes are addressed as "view:attr", e.g. "basic:size"
// or "posix:permissions".
type AttributeView string

const (
	ViewBasic AttributeView = "basic"
	ViewOwner AttributeView = "owner"
	ViewPosix AttributeView = "posix"
	ViewUnix  AttributeView = "unix"
	ViewDos   AttributeView = "dos"
	ViewACL   AttributeView = "acl"
	ViewUser  AttributeView = "user"
)

// splitAttributeName splits a "view:attr" name into its two parts. A name
// with no colon is treated as belonging to the basic view.
func splitAttributeName(name string) (AttributeView, string) {
	if idx := strings.IndexByte(name, ':'); idx >= 0 {
		return AttributeView(name[:idx]), name[idx+1:]
	}
	return ViewBasic, name
}

// ReadBasic returns the fixed set of attributes every File supports
// regardless of which AttributeProviders a Configuration registers.
func ReadBasic(f *File) map[string]interface{} {
	return map[string]interface{}{
		"size":             f.Size(),
		"isDirectory":      f.IsDirectory(),
		"isRegularFile":    f.IsRegular(),
		"isSymbolicLink":   f.IsSymbolicLink(),
		"fileKey":          f.ID(),
		"creationTime":     time.UnixMilli(f.CreatedMillis()),
		"lastModifiedTime": time.UnixMilli(f.ModifiedMillis()),
		"lastAccessTime":   time.UnixMilli(f.AccessedMillis()),
		"linkCount":        f.LinkCount(),
	}
}

// getBasicAttribute reads one named basic attribute, or (nil, false) if name
// is not one of the basic view's fixed fields.
func getBasicAttribute(f *File, attr string) (interface{}, bool) {
	v, ok := ReadBasic(f)[attr]
	return v, ok
}

// setBasicAttribute writes one named basic attribute. Only "lastModifiedTime"
// is mutable in the basic view; the rest are computed.
func setBasicAttribute(f *File, attr string, value interface{}) error {
	if attr != "lastModifiedTime" {
		return newErr(CodeUnsupportedOperation, attr, "basic attribute is read-only")
	}
	t, ok := value.(time.Time)
	if !ok {
		return newErr(CodeUnsupportedOperation, attr, "expected a time.Time value")
	}
	f.SetModifiedMillis(t.UnixMilli())
	return nil
}

// getNonBasicAttribute reads a single attribute from one of the extended
// views (owner, posix, unix, dos, acl, user), all of which are modeled as
// free-form key/value pairs attached to the File.
func getNonBasicAttribute(f *File, view AttributeView, attr string) (interface{}, bool) {
	return f.getAttr(string(view) + ":" + attr)
}

func setNonBasicAttribute(f *File, view AttributeView, attr string, value interface{}) {
	f.setAttr(string(view)+":"+attr, value)
}

// readAttributesByType reads every attribute the given view defines into a
// map, supporting the "view:*" wildcard form.
func readAttributesByType(f *File, view AttributeView) map[string]interface{} {
	if view == ViewBasic {
		return ReadBasic(f)
	}
	prefix := string(view) + ":"
	out := make(map[string]interface{})
	for k, v := range f.attrSnapshot() {
		if strings.HasPrefix(k, prefix) {
			out[strings.TrimPrefix(k, prefix)] = v
		}
	}
	return out
}

// readAttributesByName reads each of the given attribute names, each
// independently resolved to its view. A name is a single "view:attr" (or a
// bare basic attribute) or a "view:*" wildcard; a comma-separated list inside
// one name is not split.
func readAttributesByName(f *File, names ...string) map[string]interface{} {
	out := make(map[string]interface{}, len(names))
	for _, name := range names {
		view, attr := splitAttributeName(name)
		if attr == "*" {
			for k, v := range readAttributesByType(f, view) {
				out[string(view)+":"+k] = v
			}
			continue
		}
		if view == ViewBasic {
			if v, ok := getBasicAttribute(f, attr); ok {
				out[name] = v
			}
			continue
		}
		if v, ok := getNonBasicAttribute(f, view, attr); ok {
			out[name] = v
		}
	}
	return out
}

// setAttribute writes a single named attribute through its view.
func setAttribute(f *File, name string, value interface{}) error {
	view, attr := splitAttributeName(name)
	if view == ViewBasic {
		return setBasicAttribute(f, attr, value)
	}
	setNonBasicAttribute(f, view, attr, value)
	return nil
}
