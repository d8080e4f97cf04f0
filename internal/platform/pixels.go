package platform

import "image"

// PremultipliedBGRA converts img to premultiplied little-endian ARGB32, the
// layout of RENDER cursors, wl_shm ARGB8888 buffers and Win32 DIBs.
func PremultipliedBGRA(img *image.RGBA) []byte {
	out := make([]byte, len(img.Pix))
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := uint32(img.Pix[i+3])
		out[i] = byte(uint32(img.Pix[i+2]) * a / 255)
		out[i+1] = byte(uint32(img.Pix[i+1]) * a / 255)
		out[i+2] = byte(uint32(img.Pix[i]) * a / 255)
		out[i+3] = byte(a)
	}
	return out
}
