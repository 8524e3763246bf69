package resources

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
)

// DescriptorPath is the location of the deployment descriptor within the
// resource tree.
const DescriptorPath = "/WEB-INF/web.xml"

// webAppDescriptor is the subset of the deployment descriptor we read.
type webAppDescriptor struct {
	XMLName         xml.Name `xml:"web-app"`
	WelcomeFileList struct {
		WelcomeFiles []string `xml:"welcome-file"`
	} `xml:"welcome-file-list"`
}

// WelcomeFiles reads the welcome-file list from the deployment descriptor.
// A missing descriptor yields an empty list; an unreadable or malformed one
// is a fatal deployment error.
func WelcomeFiles(store Store) ([]string, error) {
	r, err := store.Open(DescriptorPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading deployment descriptor %s: %w", DescriptorPath, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading deployment descriptor %s: %w", DescriptorPath, err)
	}

	var descriptor webAppDescriptor
	if err := xml.Unmarshal(data, &descriptor); err != nil {
		return nil, fmt.Errorf("parsing deployment descriptor %s: %w", DescriptorPath, err)
	}

	return descriptor.WelcomeFileList.WelcomeFiles, nil
}
