package browser

// clipboardCaptureScript runs before any page script and records text the
// page copies, so copy actions can be read back in headless sessions where
// the system clipboard is unavailable.
const clipboardCaptureScript = `
(() => {
  window.__docpullClipboard = null;
  const store = (t) => { if (t !== undefined && t !== null) window.__docpullClipboard = String(t); };

  const cb = navigator.clipboard;
  if (cb) {
    const writeText = cb.writeText ? cb.writeText.bind(cb) : null;
    cb.writeText = (t) => {
      store(t);
      return writeText ? writeText(t).catch(() => {}) : Promise.resolve();
    };
    const write = cb.write ? cb.write.bind(cb) : null;
    cb.write = async (items) => {
      try {
        for (const item of items) {
          if (item.types.includes('text/plain')) {
            store(await (await item.getType('text/plain')).text());
            break;
          }
        }
      } catch (e) {}
      return write ? write(items).catch(() => {}) : undefined;
    };
  }

  const setData = DataTransfer.prototype.setData;
  DataTransfer.prototype.setData = function (type, data) {
    if (type === 'text/plain' || type === 'text') store(data);
    return setData.call(this, type, data);
  };

  document.addEventListener('copy', () => {
    const el = document.activeElement;
    if (el && (el.tagName === 'TEXTAREA' || el.tagName === 'INPUT')) {
      store(el.value.substring(el.selectionStart, el.selectionEnd));
      return;
    }
    const sel = document.getSelection();
    if (sel && sel.toString()) store(sel.toString());
  }, true);
})();
`

// readClipboardScript prefers the captured copy and falls back to the
// async clipboard API. It rejects when neither yields text.
const readClipboardScript = `
(async () => {
  if (window.__docpullClipboard !== undefined && window.__docpullClipboard !== null) {
    return window.__docpullClipboard;
  }
  return await navigator.clipboard.readText();
})()
`

const hrefsScript = `Array.from(document.querySelectorAll('a[href]')).map(e => e.href)`

// collectScript is called as (selector, isXPath, property).
const collectScript = `function (sel, xpath, prop) {
  let els = [];
  if (xpath) {
    const r = document.evaluate(sel, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
    for (let i = 0; i < r.snapshotLength; i++) els.push(r.snapshotItem(i));
  } else {
    els = Array.from(document.querySelectorAll(sel));
  }
  return els.map(e => String(e[prop] || '').trim());
}`
