//go:build linux

package wayland

import (
	"errors"
	"slices"
	"time"

	"github.com/1broseidon/windowkit/internal/platform"
	"golang.org/x/sys/unix"
)

const (
	mimeURIList   = "text/uri-list"
	mimeTextUTF8  = "text/plain;charset=utf-8"
	mimeUTF8      = "UTF8_STRING"
	dropReadLimit = time.Second
)

var errPipeTimeout = errors.New("timed out waiting for data")

// dataOffer is a wl_data_offer and the mime types it advertised.
type dataOffer struct {
	offer proxy
	mimes []string
}

func (o *dataOffer) has(mime string) bool { return slices.Contains(o.mimes, mime) }

func (o *dataOffer) destroy() {
	o.offer.destroy(dataOfferDestroy)
	o.offer = 0
}

// textMime returns the best plain text type of the offer.
func (o *dataOffer) textMime() (string, bool) {
	for _, mime := range []string{mimeTextUTF8, mimeUTF8, "text/plain"} {
		if o.has(mime) {
			return mime, true
		}
	}
	return "", false
}

func (b *Backend) handleDataDevice(opcode uint32, args eventArgs) {
	switch opcode {
	case dataDeviceDataOffer:
		o := &dataOffer{offer: args.Object(0)}
		b.offers[o.offer] = o
		o.offer.listen(func(opcode uint32, args eventArgs) {
			if opcode == dataOfferOffer {
				o.mimes = append(o.mimes, args.String(0))
			}
		})
	case dataDeviceEnter:
		b.dropOffer(b.dragOffer)
		b.dragOffer, b.dragWindow = nil, nil
		o := b.offers[args.Object(4)]
		w := b.windows[args.Object(1)]
		if o == nil {
			return
		}
		delete(b.offers, o.offer)
		b.dragOffer, b.dragWindow = o, w
		b.dragSerial = args.Uint(0)
		if w != nil && o.has(mimeURIList) {
			o.offer.request(dataOfferAccept, b.dragSerial, mimeURIList)
			if o.offer.version() >= 3 {
				o.offer.request(dataOfferSetActions, uint32(dndActionCopy), uint32(dndActionCopy))
			}
		} else {
			o.offer.request(dataOfferAccept, b.dragSerial, nil)
		}
	case dataDeviceLeave:
		b.dropOffer(b.dragOffer)
		b.dragOffer, b.dragWindow = nil, nil
	case dataDeviceMotion:
		if w := b.dragWindow; w != nil {
			w.events.InputCursorPos(args.Fixed(1), args.Fixed(2))
		}
	case dataDeviceDrop:
		b.drop()
	case dataDeviceSelection:
		b.dropOffer(b.selection)
		b.selection = nil
		if o := b.offers[args.Object(0)]; o != nil {
			delete(b.offers, o.offer)
			b.selection = o
		}
	}
}

// drop reads the dropped URI list and reports the local paths.
func (b *Backend) drop() {
	o, w := b.dragOffer, b.dragWindow
	if o == nil || w == nil || !o.has(mimeURIList) {
		return
	}
	data, err := b.receive(o, mimeURIList, dropReadLimit)
	if err != nil {
		b.logger.Warn("failed to read dropped files", "error", err)
		return
	}
	if o.offer.version() >= 3 {
		o.offer.request(dataOfferFinish)
	}
	if paths := platform.ParseURIList(string(data)); len(paths) > 0 {
		w.events.InputDrop(paths)
	}
}

func (b *Backend) dropOffer(o *dataOffer) {
	if o != nil {
		o.destroy()
	}
}

// receive asks the offer's owner to write mime into a pipe and reads it to
// the end.
func (b *Backend) receive(o *dataOffer, mime string, timeout time.Duration) ([]byte, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		return nil, err
	}
	o.offer.request(dataOfferReceive, mime, int32(fds[1]))
	unix.Close(fds[1])
	wl.displayFlush(b.display)
	defer unix.Close(fds[0])
	return readPipe(fds[0], timeout)
}

func readPipe(fd int, timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	var data []byte
	buf := make([]byte, 4096)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, errPipeTimeout
		}
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, int(remaining.Milliseconds())+1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return nil, err
		}
		if n == 0 {
			return nil, errPipeTimeout
		}
		n, err = unix.Read(fd, buf)
		switch {
		case err == unix.EINTR || err == unix.EAGAIN:
			continue
		case err != nil:
			return nil, err
		case n == 0:
			return data, nil
		}
		data = append(data, buf[:n]...)
	}
}

// Clipboard.

func (b *Backend) SetClipboardString(text string) error {
	if b.dataDevice == 0 {
		return platform.Errorf(platform.FeatureUnavailable, "[Window] Wayland: Clipboard requires a data device")
	}
	b.destroySource()
	source := b.g.dataDeviceManager.create(dataDeviceManagerCreateSource, dataSourceIface, 0, newID{})
	if source == 0 {
		return platform.Errorf(platform.PlatformError, "[Window] Wayland: Failed to create clipboard data source")
	}
	b.source, b.sourceText = source, text
	source.listen(b.handleDataSource)
	source.request(dataSourceOffer, mimeTextUTF8)
	source.request(dataSourceOffer, mimeUTF8)
	b.dataDevice.request(dataDeviceSetSelection, source, b.inputSerial)
	return nil
}

func (b *Backend) handleDataSource(opcode uint32, args eventArgs) {
	switch opcode {
	case dataSourceSend:
		fd := args.FD(1)
		defer unix.Close(fd)
		data := []byte(b.sourceText)
		for len(data) > 0 {
			n, err := unix.Write(fd, data)
			if err == unix.EINTR {
				continue
			}
			if err != nil {
				b.logger.Warn("failed to send clipboard contents", "mime", args.String(0), "error", err)
				return
			}
			data = data[n:]
		}
	case dataSourceCancelled:
		b.destroySource()
	}
}

func (b *Backend) destroySource() {
	if b.source == 0 {
		return
	}
	b.source.destroy(dataSourceDestroy)
	b.source = 0
	b.sourceText = ""
}

func (b *Backend) ClipboardString() (string, error) {
	if b.source != 0 {
		return b.sourceText, nil
	}
	o := b.selection
	if o == nil {
		return "", platform.Errorf(platform.FormatUnavailable, "[Window] Wayland: Clipboard is empty")
	}
	mime, ok := o.textMime()
	if !ok {
		return "", platform.Errorf(platform.FormatUnavailable, "[Window] Wayland: Failed to convert clipboard to string")
	}
	data, err := b.receive(o, mime, b.opts.ClipboardTimeout)
	if err != nil {
		return "", platform.Wrap(platform.PlatformError, err, "[Window] Wayland: Failed to read clipboard")
	}
	return string(data), nil
}
