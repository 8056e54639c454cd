/*
 * MIT License
 *
 * Copyright (c) 2026 uvrpc contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	uverr "github.com/nabbar/uvrpc/errors"
	"github.com/nabbar/uvrpc/reactor"
)

// Watcher owns an fsnotify watch on one configuration file, closed by Stop.
type Watcher struct {
	w *fsnotify.Watcher
}

// Watch reloads path on every write event, decoding and validating it the
// same way FromViper does, and hands the new Options to onChange on loop's
// thread via Reactor.Post - the fsnotify goroutine itself never calls
// onChange directly, matching the module's rule that only reactor-thread
// code touches reactor-owned state.
func Watch(loop *reactor.Reactor, path string, onChange func(Options, error)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, uverr.Wrap(uverr.KindIO, "failed to create file watcher", err)
	}
	if err := w.Add(path); err != nil {
		_ = w.Close()
		return nil, uverr.Wrap(uverr.KindIO, "failed to watch config file", err)
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				opts, err := reload(path)
				loop.Post(func() { onChange(opts, err) })
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				loop.Post(func() { onChange(Options{}, uverr.Wrap(uverr.KindIO, "config watch error", err)) })
			}
		}
	}()

	return &Watcher{w: w}, nil
}

// Stop releases the underlying fsnotify watch.
func (w *Watcher) Stop() error {
	return w.w.Close()
}

func reload(path string) (Options, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Options{}, uverr.Wrap(uverr.KindIO, "failed to read config file", err)
	}
	return FromViper(v)
}
