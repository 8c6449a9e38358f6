package ports

import "samplewms/adapters/excel"

// ImageSource resolves an image reference (http(s) URL or data: URI) to
// embeddable bytes. The boolean is false when the image is unavailable;
// callers degrade to a link instead of failing.
type ImageSource = excel.ImageSource
